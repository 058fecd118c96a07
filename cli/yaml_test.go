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

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/otns-labs/v2x-prr/analysis"
)

var testYamlOptions = `
window:
    half_width: 1500
    step: 0.5
max_iterations: 20
domain_policy: outage
reuse_from_occupancy: true
workers: 3
`

func TestYamlParamsRoundTrip(t *testing.T) {
	rt, _ := newTestRunner()
	var out bytes.Buffer
	assert.Nil(t, rt.RunCommand("show params", &out))

	data := bytes.TrimSuffix(out.Bytes(), []byte("Done\n"))
	var params analysis.Params
	assert.Nil(t, yaml.Unmarshal(data, &params))
	assert.Equal(t, rt.params, params)
}

func TestYamlOptionsUnmarshall(t *testing.T) {
	opts := analysis.Options{}
	err := yaml.Unmarshal([]byte(testYamlOptions), &opts)
	assert.Nil(t, err)
	assert.Equal(t, 1500.0, opts.Window.HalfWidth)
	assert.Equal(t, 0.5, opts.Window.Step)
	assert.Equal(t, 20, opts.MaxIterations)
	assert.Equal(t, analysis.DomainOutage, opts.DomainPolicy)
	assert.True(t, opts.ReuseFromOccupancy)
	assert.Equal(t, 3, opts.Workers)
}
