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

package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/otns-labs/v2x-prr/analysis"
)

const testScenario = `
params:
  max_distance: 100
  P_s_dB: -90
options:
  domain_policy: outage
  window:
    half_width: 2000
    step: 1
prr_threshold: 0.99
runs:
  - label: two-lanes
    MCS: 4
    numerology: 0
    num_lanes: 2
  - MCS: 4
    numerology: 1
    beta: 0.1
  - label: occupancy
    set:
      p_res_ik: 1
      slot: 0.001
    numerology: 2
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(testScenario))
	assert.Nil(t, err)
	assert.Equal(t, 100, s.Params.MaxDistance)
	assert.Equal(t, 50, s.Params.StepDistance)
	assert.Equal(t, analysis.DomainOutage, s.Options.DomainPolicy)
	assert.Equal(t, 1, s.Options.Workers)
	assert.Equal(t, 0.99, s.PrrThreshold)
	assert.Len(t, s.RunList(), 3)

	p, err := s.Resolve(s.Runs[0])
	assert.Nil(t, err)
	assert.Equal(t, 0.05, p.Beta)
	assert.Equal(t, 0.001, p.Slot)

	p, err = s.Resolve(s.Runs[1])
	assert.Nil(t, err)
	assert.Equal(t, 0.1, p.Beta)
	assert.Equal(t, 0.0005, p.Slot)
	assert.Equal(t, "MCS4-mu1-beta0.1", s.Runs[1].Name())
	info := s.RunInfo(s.Runs[1], p)
	assert.Equal(t, 1, info.Numerology)
	assert.Equal(t, 4, info.NumLanes)

	p, err = s.Resolve(s.Runs[2])
	assert.Nil(t, err)
	assert.Equal(t, 0.001, p.Slot)
	assert.Equal(t, 1.0, p.PResIk)
	assert.Equal(t, 2, s.RunInfo(s.Runs[2], p).Numerology)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("params:\n  unknown_key: 1\n"))
	assert.NotNil(t, err)

	_, err = Parse([]byte("params:\n  beta: -1\n"))
	assert.NotNil(t, err)

	_, err = Parse([]byte("runs:\n  - numerology: 9\n"))
	assert.NotNil(t, err)

	_, err = Parse([]byte("runs:\n  - set: {nope: 1}\n"))
	assert.NotNil(t, err)

	_, err = Parse([]byte("prr_threshold: 2\n"))
	assert.NotNil(t, err)
}

func TestEmptyScenario(t *testing.T) {
	s, err := Parse(nil)
	assert.Nil(t, err)
	assert.Equal(t, analysis.DefaultParams(), s.Params)
	assert.Equal(t, []Run{{Label: "default"}}, s.RunList())
}

func TestNumerology(t *testing.T) {
	assert.Equal(t, 0.001, SlotDuration(0))
	assert.Equal(t, 0.000125, SlotDuration(3))
	assert.Equal(t, 0, Numerology(0.001))
	assert.Equal(t, 2, Numerology(0.00025))
	assert.Equal(t, 0, Numerology(0.0003))
}

func TestLoadAndExecute(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "scenario.yaml")
	assert.Nil(t, os.WriteFile(fn, []byte("params:\n  max_distance: 50\nruns:\n  - label: a\n    num_lanes: 2\n  - label: b\n    set: {p_res_ik: 1}\n"), 0o644))

	s, err := Load(fn)
	assert.Nil(t, err)

	outcomes, err := s.Execute(context.Background(), analysis.Options{Workers: 2})
	assert.Nil(t, err)
	assert.Len(t, outcomes, 2)
	assert.Equal(t, []float64{0, 50}, outcomes[0].Result.Distances)
	assert.Len(t, outcomes[0].Rows, 4)
	assert.Equal(t, outcomes[1].Result.PrrNrv2x, outcomes[1].Result.PrrSpc6g)
	assert.Len(t, Rows(outcomes), 8)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
}
