// Copyright (c) 2020, The OTNS Authors.
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

package radiomodel

import (
	"math"

	. "github.com/otns-labs/v2x-prr/types"
)

// InterferenceDistance computes d_int, the radius around the receiver within which a single
// interferer drops the SINR of the desired link below gamma. All powers are linear (mW), k0 is
// the linear reference path gain and dij the link distance, already offset by +1.
//
// If even the noise alone violates the SINR threshold at dij, there is no bounded interference
// region and a *DomainError is returned.
func InterferenceDistance(pt, k0, gamma, dij, alpha, n0 float64) (float64, error) {
	if dij <= 0 || alpha <= 0 || gamma <= 0 {
		return math.NaN(), &DomainError{Op: "interference distance", Value: dij,
			Reason: "distance, exponent and SINR threshold must be positive"}
	}
	numerator := pt * k0
	denominator := numerator/(gamma*math.Pow(dij, alpha)) - n0
	if denominator <= 0 {
		return math.Inf(1), &DomainError{Op: "interference distance", Value: denominator,
			Reason: "SINR threshold unreachable at this distance (denominator <= 0)"}
	}
	dInt := math.Pow(numerator/denominator, 1/alpha)
	if math.IsNaN(dInt) || math.IsInf(dInt, 0) || dInt < 0 {
		return dInt, &DomainError{Op: "interference distance", Value: dInt, Reason: "non-finite result"}
	}
	return dInt, nil
}
