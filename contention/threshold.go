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

import (
	"github.com/pkg/errors"

	"github.com/otns-labs/v2x-prr/logger"
	"github.com/otns-labs/v2x-prr/radiomodel"
	"github.com/otns-labs/v2x-prr/sensing"
	. "github.com/otns-labs/v2x-prr/types"
)

const (
	DefaultThresholdStepDb DbValue = 3.0
	DefaultMaxIterations           = 100
)

// ThresholdConfig configures the sensing-threshold back-off.
type ThresholdConfig struct {
	Link          *radiomodel.LinkModel // link model with the initial sensing threshold
	Beta          float64               // vehicle density (1/m)
	Window        sensing.Window
	Channels      float64 // sub-channels a transmission occupies
	R             float64 // resource units per reservation interval
	S             float64 // minimum share of units that must stay free
	StepDb        DbValue // threshold increment per iteration; DefaultThresholdStepDb if 0
	MaxIterations int     // back-off bound; DefaultMaxIterations if 0
}

// ResourceState is the outcome of the threshold back-off: the sensing configuration every
// transmitter ends up with, and the resulting resource usage.
type ResourceState struct {
	R                  float64
	RU                 float64
	Spsr               float64
	SensingThresholdDb DbValue
	Iterations         int // number of 3 dB back-off steps taken
	Neighborhood       *sensing.Neighborhood
}

// AdjustSensingThreshold raises the sensing threshold in StepDb steps until the expected
// resource usage RU fits into (1-S)*R. A *ConvergenceError is returned when MaxIterations
// steps were taken without reaching that.
func AdjustSensingThreshold(cfg ThresholdConfig) (*ResourceState, error) {
	if cfg.Link == nil {
		return nil, errors.Errorf("threshold adjustment requires a link model")
	}
	if !(cfg.R > 0) {
		return nil, errors.Errorf("invalid resource count R: %v", cfg.R)
	}
	stepDb := cfg.StepDb
	if stepDb == 0 {
		stepDb = DefaultThresholdStepDb
	}
	maxIter := cfg.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}

	op := cfg.Channels / cfg.R
	target := (1 - cfg.S) * cfg.R
	psDb := cfg.Link.SensingThresholdDb

	eval := func(iter int) (*ResourceState, error) {
		nb, err := sensing.NewNeighborhood(cfg.Beta, cfg.Link.WithSensingThreshold(psDb), cfg.Window)
		if err != nil {
			return nil, err
		}
		spsr := nb.SPSR()
		return &ResourceState{
			R:                  cfg.R,
			RU:                 RU(cfg.R, spsr, op),
			Spsr:               spsr,
			SensingThresholdDb: psDb,
			Iterations:         iter,
			Neighborhood:       nb,
		}, nil
	}

	rs, err := eval(0)
	if err != nil {
		return nil, err
	}
	for rs.RU > target {
		if rs.Iterations >= maxIter {
			return nil, &ConvergenceError{Iterations: rs.Iterations, Limit: maxIter, LastRU: rs.RU, TargetRU: target}
		}
		psDb += stepDb
		logger.Debugf("RU=%.3f exceeds %.3f, raising sensing threshold to %.1f dBm", rs.RU, target, psDb)
		if rs, err = eval(rs.Iterations + 1); err != nil {
			return nil, err
		}
	}
	return rs, nil
}
