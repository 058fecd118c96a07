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

	"github.com/otns-labs/v2x-prr/logger"
	. "github.com/otns-labs/v2x-prr/types"
)

// PathLoss computes the log-distance path loss (dB) at distance d (m), for reference path gain
// k0Db and path loss exponent gamma, and returns it with the shadowing stddev (dB) of the model.
// The distance must be > 0; callers use |d|+1 so that co-located nodes see the 1 m loss.
func (p *ModelParams) PathLoss(d float64, k0Db DbValue, gamma float64) (DbValue, DbValue) {
	if d <= 0 {
		logger.Panicf("path loss distance must be positive: %v", d)
	}
	pl := -k0Db + 10.0*gamma*math.Log10(d)
	return pl, p.ShadowFadingSigmaDb
}

// PathLoss computes the path loss using the default model parameters.
func PathLoss(d float64, k0Db DbValue, gamma float64) (DbValue, DbValue) {
	return defaultModelParams.PathLoss(d, k0Db, gamma)
}

// DbToLinear converts a dB (or dBm) value to linear scale (ratio or mW).
func DbToLinear(v DbValue) float64 {
	return math.Pow(10, v/10.0)
}

// LinearToDb converts a linear ratio (or mW) to dB (or dBm).
func LinearToDb(v float64) DbValue {
	return 10.0 * math.Log10(v)
}
