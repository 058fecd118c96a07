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

package kpi

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/otns-labs/v2x-prr/analysis"
	. "github.com/otns-labs/v2x-prr/types"
)

type SummaryResources struct {
	R                  float64 `yaml:"R"`
	RU                 float64 `yaml:"RU"`
	Spsr               float64 `yaml:"SPSR"`
	SensingThresholdDb float64 `yaml:"P_s_dB"`
	Iterations         int     `yaml:"backoff_iterations"`
}

type SummaryRun struct {
	Label     string             `yaml:"label"`
	Params    analysis.Params    `yaml:"params"`
	Resources SummaryResources   `yaml:"resources"`
	Ranges    map[string]float64 `yaml:"communication_range"`
	Unbounded []float64          `yaml:"unbounded_distances,omitempty"`
	Samples   int                `yaml:"inner_samples"`
}

// Summary is the run-level overview written next to the metric tables.
type Summary struct {
	FileTime     string       `yaml:"created"`
	Status       string       `yaml:"status"`
	PrrThreshold float64      `yaml:"prr_threshold"`
	Runs         []SummaryRun `yaml:"runs"`
}

func NewSummary(prrThreshold float64) *Summary {
	return &Summary{Status: "ok", PrrThreshold: prrThreshold}
}

// AddRun appends the overview of one evaluated run.
func (s *Summary) AddRun(label string, res *analysis.Result) {
	run := SummaryRun{
		Label:  label,
		Params: res.Params,
		Resources: SummaryResources{
			R:                  res.Resources.R,
			RU:                 res.Resources.RU,
			Spsr:               res.Resources.Spsr,
			SensingThresholdDb: res.Resources.SensingThresholdDb,
			Iterations:         res.Resources.Iterations,
		},
		Ranges:  make(map[string]float64, len(Protocols)),
		Samples: res.InnerSamples(),
	}
	for _, p := range Protocols {
		run.Ranges[p.String()] = res.CommunicationRange(p, s.PrrThreshold)
	}
	for _, pt := range res.Points {
		if pt.Unbounded {
			run.Unbounded = append(run.Unbounded, pt.Distance)
		}
	}
	if len(run.Unbounded) > 0 {
		s.Status = "some distances reported as outage without a bounded interference region"
	}
	s.Runs = append(s.Runs, run)
}

// SaveFile writes the summary as yaml.
func (s *Summary) SaveFile(fn string) error {
	s.FileTime = time.Now().Format(time.RFC3339)
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding summary")
	}
	return errors.Wrapf(os.WriteFile(fn, data, 0o644), "writing summary %s", fn)
}
