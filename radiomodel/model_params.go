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

// default propagation parameters
const (
	defaultShadowFadingSigmaDb DbValue = 3.0  // shadowing stddev (dB) of the highway LoS model
	defaultFreeSpaceLossDb     DbValue = 32.4 // 3GPP TR 38.901 free-space term at 1 m, fc in GHz
	defaultFreqLossExponentDb  DbValue = 20.0 // fc-dependent term, 20*log10(fc)
)

// ModelParams stores the constants of the log-distance propagation model.
type ModelParams struct {
	ShadowFadingSigmaDb DbValue // sigma (stddev) of the log-normal shadowing, in dB
	FreeSpaceLossDb     DbValue // fixed loss (dB) at 1 m of the reference path gain
	FreqLossExponentDb  DbValue // multiplier (dB) of log10(fc) in the reference path gain
}

// DefaultModelParams gets a new set of parameters with default values, as a basis to configure further.
func DefaultModelParams() *ModelParams {
	return &ModelParams{
		ShadowFadingSigmaDb: defaultShadowFadingSigmaDb,
		FreeSpaceLossDb:     defaultFreeSpaceLossDb,
		FreqLossExponentDb:  defaultFreqLossExponentDb,
	}
}

// ReferenceGainDb returns the path gain K0 (dB, negative) at 1 m for carrier frequency fcGHz.
// See 3GPP TR 38.901 V17.0.0, Table 7.4.1-1.
func (p *ModelParams) ReferenceGainDb(fcGHz float64) DbValue {
	return -(p.FreeSpaceLossDb + p.FreqLossExponentDb*math.Log10(fcGHz))
}

// ReferenceGainDb returns K0 (dB) for carrier frequency fcGHz, using the default model parameters.
func ReferenceGainDb(fcGHz float64) DbValue {
	return defaultModelParams.ReferenceGainDb(fcGHz)
}

var defaultModelParams = DefaultModelParams()
