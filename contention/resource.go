// Copyright (c) 2024, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package contention

import "math"

// RU returns the expected number of resource units occupied within a reservation interval of r
// units, when spsr sensing neighbors each pick a unit with probability op.
func RU(r, spsr, op float64) float64 {
	return r * (1 - math.Pow(1-op, spsr))
}

// UDik returns u(d_ik), the expected number of units occupied in both sensing neighborhoods of two
// transmitters, from their common neighbor count. It blends independent selection (RU^2/R) and
// full reuse (RU) by the share of common neighbors. Without sensing neighbors the share is 0.
func UDik(r, ru, commonNeighbors, spsr float64) float64 {
	share := 0.0
	if spsr > 0 {
		share = commonNeighbors / spsr
	}
	return (ru*ru/r)*(1-share) + ru*share
}

// ODik returns o(d_ik), the number of units free for both transmitters.
func ODik(r, ru, uDik float64) float64 {
	return r - 2*ru + uDik
}

// Mu returns mu(d_ik), the share of candidate units on which a collision is not avoided by
// sensing, for reselection counters rc1 and rc2 and sensing success psr.
func Mu(rc1, rc2, psr float64) float64 {
	return 1 - (1-2/(rc1+rc2))*psr
}

// PDik returns p(d_ik), the probability that a node at d_ik selects the same resource:
// mu * o * (channels/rf)^2.
func PDik(mu, oDik, channels, rf float64) float64 {
	r := channels / rf
	return mu * oDik * r * r
}

// PsDik returns the per-neighbor success probability of SPC6G, where a colliding resource is
// still usable unless the neighbor actually reuses it (probability pRes).
func PsDik(pDik, pRes float64) float64 {
	return (1 - pDik) + pDik*(1-pRes)
}

// PsDikNR returns the per-neighbor success probability of NR-V2X; every collision is a loss.
func PsDikNR(pDik float64) float64 {
	return 1 - pDik
}
