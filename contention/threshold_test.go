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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/otns-labs/v2x-prr/radiomodel"
	"github.com/otns-labs/v2x-prr/sensing"
	. "github.com/otns-labs/v2x-prr/types"
)

func newTestConfig(s float64) ThresholdConfig {
	return ThresholdConfig{
		Link:     radiomodel.NewLinkModel(23, -90, radiomodel.ReferenceGainDb(5.9), 2.5),
		Beta:     0.05,
		Window:   sensing.DefaultWindow(),
		Channels: 2,
		R:        10000,
		S:        s,
	}
}

func TestAdjustSensingThresholdNoBackoff(t *testing.T) {
	rs, err := AdjustSensingThreshold(newTestConfig(0.5))
	assert.Nil(t, err)
	assert.Equal(t, 0, rs.Iterations)
	assert.Equal(t, DbValue(-90), rs.SensingThresholdDb)
	assert.InDelta(t, 41.96268609550501, rs.Spsr, 1e-6)
	assert.InDelta(t, 83.58250543556545, rs.RU, 1e-6)
	assert.Equal(t, 10000.0, rs.R)
	assert.NotNil(t, rs.Neighborhood)
}

func TestAdjustSensingThresholdBackoff(t *testing.T) {
	rs, err := AdjustSensingThreshold(newTestConfig(0.995))
	assert.Nil(t, err)
	assert.Equal(t, 2, rs.Iterations)
	assert.Equal(t, DbValue(-84), rs.SensingThresholdDb)
	assert.InDelta(t, 24.104549471072854, rs.Spsr, 1e-6)
	assert.InDelta(t, 48.097877958871436, rs.RU, 1e-6)
	assert.True(t, rs.RU <= (1-0.995)*10000)
}

func TestAdjustSensingThresholdConvergence(t *testing.T) {
	cfg := newTestConfig(1.0) // no unit may be used: RU > 0 until PSR underflows
	cfg.MaxIterations = 10
	_, err := AdjustSensingThreshold(cfg)
	var ce *ConvergenceError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, 10, ce.Iterations)
	assert.Equal(t, 10, ce.Limit)
	assert.Equal(t, 0.0, ce.TargetRU)
}

func TestAdjustSensingThresholdInvalid(t *testing.T) {
	cfg := newTestConfig(0.5)
	cfg.Link = nil
	_, err := AdjustSensingThreshold(cfg)
	assert.NotNil(t, err)

	cfg = newTestConfig(0.5)
	cfg.R = 0
	_, err = AdjustSensingThreshold(cfg)
	assert.NotNil(t, err)

	cfg = newTestConfig(0.5)
	cfg.Beta = -1
	_, err = AdjustSensingThreshold(cfg)
	assert.NotNil(t, err)
}
