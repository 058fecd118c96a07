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

	"gonum.org/v1/gonum/stat/distuv"

	. "github.com/otns-labs/v2x-prr/types"
)

// LinkModel is the received-power model of one broadcast link: a transmitter at TxPowerDb and
// receivers that detect the packet when the shadowed received power exceeds SensingThresholdDb.
type LinkModel struct {
	Params             *ModelParams
	TxPowerDb          DbValue // transmit power (dBm)
	SensingThresholdDb DbValue // receiver sensing threshold / sensitivity (dBm)
	RefGainDb          DbValue // K0, reference path gain at 1 m (dB)
	Exponent           float64 // path loss exponent
}

// NewLinkModel creates a link model with the default propagation parameters.
func NewLinkModel(txPowerDb, sensingThresholdDb, refGainDb DbValue, exponent float64) *LinkModel {
	return &LinkModel{
		Params:             DefaultModelParams(),
		TxPowerDb:          txPowerDb,
		SensingThresholdDb: sensingThresholdDb,
		RefGainDb:          refGainDb,
		Exponent:           exponent,
	}
}

// WithSensingThreshold returns a copy of the link model using another sensing threshold.
func (lm *LinkModel) WithSensingThreshold(thresholdDb DbValue) *LinkModel {
	lm2 := *lm
	lm2.SensingThresholdDb = thresholdDb
	return &lm2
}

// PSR computes the packet success rate at distance d: the probability that the log-normally
// shadowed received power is above the sensing threshold. Evaluated at |d|+1.
func (lm *LinkModel) PSR(d float64) float64 {
	pl, sigma := lm.Params.PathLoss(math.Abs(d)+1, lm.RefGainDb, lm.Exponent)
	margin := lm.TxPowerDb - pl - lm.SensingThresholdDb
	if sigma <= 0 {
		if margin >= 0 {
			return 1.0
		}
		return 0.0
	}
	// 0.5*(1+erf(margin/(sigma*sqrt(2)))) is the CDF of N(0,sigma) at margin.
	return distuv.Normal{Mu: 0, Sigma: sigma}.CDF(margin)
}

// PSRs computes PSR element-wise over ds, storing results in dst. If dst is nil or too short,
// a new slice is allocated.
func (lm *LinkModel) PSRs(dst []float64, ds []float64) []float64 {
	if len(dst) < len(ds) {
		dst = make([]float64, len(ds))
	}
	dst = dst[:len(ds)]
	for i, d := range ds {
		dst[i] = lm.PSR(d)
	}
	return dst
}

// PSR computes the packet success rate at distance d, using the default model parameters.
func PSR(d float64, ptDb, psenDb, k0Db DbValue, gamma float64) float64 {
	lm := LinkModel{
		Params:             defaultModelParams,
		TxPowerDb:          ptDb,
		SensingThresholdDb: psenDb,
		RefGainDb:          k0Db,
		Exponent:           gamma,
	}
	return lm.PSR(d)
}
