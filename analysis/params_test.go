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

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Nil(t, p.Validate())
	assert.Equal(t, 10000.0, p.ResourceUnits())
	assert.Equal(t, []float64{0, 50, 100, 150, 200}, p.Distances())
}

func TestParamsDistances(t *testing.T) {
	p := DefaultParams()
	p.MaxDistance = 120
	p.StepDistance = 50
	assert.Equal(t, []float64{0, 50, 100}, p.Distances())

	p.MaxDistance = 0
	assert.Equal(t, []float64{0}, p.Distances())

	p.StepDistance = 0
	assert.Nil(t, p.Distances())
}

func TestParamsValidate(t *testing.T) {
	cases := map[string]func(p *Params){
		"beta":          func(p *Params) { p.Beta = 0 },
		"slot":          func(p *Params) { p.Slot = -1 },
		"s":             func(p *Params) { p.S = 1.5 },
		"p_res_ik":      func(p *Params) { p.PResIk = -0.1 },
		"rc negative":   func(p *Params) { p.Rc1, p.Rc2 = -1, 5 },
		"rc zero":       func(p *Params) { p.Rc1, p.Rc2 = 0, 0 },
		"channels":      func(p *Params) { p.Channels = 200 },
		"max_distance":  func(p *Params) { p.MaxDistance = -1 },
		"step_distance": func(p *Params) { p.StepDistance = 0 },
	}
	for name, mutate := range cases {
		p := DefaultParams()
		mutate(&p)
		assert.NotNil(t, p.Validate(), name)
	}

	p := DefaultParams()
	p.Rc1, p.Rc2 = 3, 2
	assert.Nil(t, p.Validate())
	p.Rc1, p.Rc2 = 0, 4
	assert.Nil(t, p.Validate())
}

func TestParamsSet(t *testing.T) {
	p := DefaultParams()
	assert.Nil(t, p.Set("P_s_dB", -87))
	assert.Equal(t, -87.0, p.SensingThresholdDb)
	assert.Nil(t, p.SetString("beta", "0.1"))
	assert.Equal(t, 0.1, p.Beta)
	assert.Nil(t, p.Set("max_distance", 400))
	assert.Equal(t, 400, p.MaxDistance)

	assert.NotNil(t, p.Set("max_distance", 10.5))
	assert.NotNil(t, p.Set("unknown", 1))
	assert.NotNil(t, p.SetString("beta", "abc"))

	v, ok := p.Get("max_distance")
	assert.True(t, ok)
	assert.Equal(t, 400.0, v)
	_, ok = p.Get("unknown")
	assert.False(t, ok)

	names := ParamNames()
	assert.Len(t, names, 17)
	for _, name := range names {
		_, ok := p.Get(name)
		assert.True(t, ok, name)
	}
}

func TestParamsYaml(t *testing.T) {
	var p Params
	err := yaml.Unmarshal([]byte(`
channels: 2
sinr_threshold_dB: 5
beta: 0.05
P_t_dB: 23
fc: 5.9
alpha: 2.5
P_s_dB: -90
N_0_dB: -95
maxchannel: 100
slot: 0.001
s: 0.5
rc1: 2
rc2: 3
rri: 0.1
p_res_ik: 0.1
max_distance: 200
step_distance: 50
`), &p)
	assert.Nil(t, err)
	assert.Equal(t, DefaultParams(), p)
}

func TestDomainPolicy(t *testing.T) {
	var opts Options
	assert.Nil(t, yaml.Unmarshal([]byte("domain_policy: outage\nworkers: 4\nwindow: {half_width: 500, step: 1}\n"), &opts))
	assert.Equal(t, DomainOutage, opts.DomainPolicy)
	assert.Equal(t, 4, opts.Workers)
	assert.Equal(t, 500.0, opts.Window.HalfWidth)
	assert.Nil(t, opts.Validate())

	assert.NotNil(t, yaml.Unmarshal([]byte("domain_policy: ignore\n"), &opts))

	text, err := DomainFail.MarshalText()
	assert.Nil(t, err)
	assert.Equal(t, "fail", string(text))
	_, err = DomainPolicy(5).MarshalText()
	assert.NotNil(t, err)
}
