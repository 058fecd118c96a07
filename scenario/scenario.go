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

// Package scenario loads YAML scenario files: a base parameter set, evaluation options and a
// list of runs that vary numerology, density and individual parameters.
package scenario

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/otns-labs/v2x-prr/analysis"
	"github.com/otns-labs/v2x-prr/kpi"
	"github.com/otns-labs/v2x-prr/logger"
)

// baseSlot is the slot duration of numerology 0.
const baseSlot = 0.001

// Scenario is the content of a scenario file.
type Scenario struct {
	Params       analysis.Params  `yaml:"params"`
	Options      analysis.Options `yaml:"options"`
	PrrThreshold float64          `yaml:"prr_threshold"`
	Runs         []Run            `yaml:"runs"`
}

// Run is one evaluation of a scenario. Unset fields keep the base parameters.
type Run struct {
	Label      string             `yaml:"label"`
	MCS        int                `yaml:"MCS"`
	Numerology *int               `yaml:"numerology"`
	Beta       *float64           `yaml:"beta"`
	NumLanes   int                `yaml:"num_lanes"`
	Set        map[string]float64 `yaml:"set"`
}

// Outcome is the evaluated run.
type Outcome struct {
	Run    Run
	Params analysis.Params
	Result *analysis.Result
	Rows   []kpi.Row
}

// Default returns the scenario with the default parameters and a single run.
func Default() *Scenario {
	return &Scenario{
		Params:       analysis.DefaultParams(),
		Options:      analysis.DefaultOptions(),
		PrrThreshold: kpi.DefaultPrrThreshold,
	}
}

// Load reads a scenario file. Parameters and options missing in the file keep their defaults;
// unknown keys are rejected.
func Load(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scenario %s", filename)
	}
	s, err := Parse(data)
	return s, errors.Wrapf(err, "scenario %s", filename)
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Scenario, error) {
	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the base parameters, the options and every run.
func (s *Scenario) Validate() error {
	if !(s.PrrThreshold > 0 && s.PrrThreshold <= 1) {
		return errors.Errorf("prr_threshold must be in (0, 1]: %v", s.PrrThreshold)
	}
	if err := s.Options.Validate(); err != nil {
		return errors.Wrap(err, "options")
	}
	if err := s.Params.Validate(); err != nil {
		return errors.Wrap(err, "params")
	}
	for i, run := range s.RunList() {
		if _, err := s.Resolve(run); err != nil {
			return errors.Wrapf(err, "run %d (%s)", i, run.Name())
		}
	}
	return nil
}

// RunList returns the runs of the scenario, or a single run of the base parameters if there
// are none.
func (s *Scenario) RunList() []Run {
	if len(s.Runs) == 0 {
		return []Run{{Label: "default"}}
	}
	return s.Runs
}

// Name returns the label of the run, or a label built from its settings.
func (r *Run) Name() string {
	if r.Label != "" {
		return r.Label
	}
	name := fmt.Sprintf("MCS%d", r.MCS)
	if r.Numerology != nil {
		name += fmt.Sprintf("-mu%d", *r.Numerology)
	}
	if r.Beta != nil {
		name += fmt.Sprintf("-beta%g", *r.Beta)
	} else if r.NumLanes > 0 {
		name += fmt.Sprintf("-lanes%d", r.NumLanes)
	}
	return name
}

// Resolve returns the parameters of a run: the base parameters, with the slot derived from the
// numerology, beta from the lane count, and finally the explicit overrides.
func (s *Scenario) Resolve(run Run) (analysis.Params, error) {
	p := s.Params
	if run.Numerology != nil {
		mu := *run.Numerology
		if mu < 0 || mu > 6 {
			return p, errors.Errorf("invalid numerology: %d", mu)
		}
		p.Slot = SlotDuration(mu)
	}
	if run.Beta != nil {
		p.Beta = *run.Beta
	} else if run.NumLanes > 0 {
		p.Beta = kpi.LanesToBeta(run.NumLanes)
	}

	keys := make([]string, 0, len(run.Set))
	for k := range run.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := p.Set(k, run.Set[k]); err != nil {
			return p, err
		}
	}
	return p, p.Validate()
}

// RunInfo returns the labels the rows of run are exported with.
func (s *Scenario) RunInfo(run Run, p analysis.Params) kpi.RunInfo {
	info := kpi.RunInfo{MCS: run.MCS, NumLanes: run.NumLanes}
	if run.Numerology != nil {
		info.Numerology = *run.Numerology
	} else {
		info.Numerology = Numerology(p.Slot)
	}
	if info.NumLanes == 0 {
		info.NumLanes = int(math.Round(p.Beta * kpi.LaneSpacing))
	}
	return info
}

// SlotDuration returns the slot duration (s) of 5G NR numerology mu.
func SlotDuration(mu int) float64 {
	return baseSlot / float64(int(1)<<uint(mu))
}

// Numerology returns the numerology of a slot duration, or 0 if it is not a power-of-two
// fraction of 1 ms.
func Numerology(slot float64) int {
	mu := math.Log2(baseSlot / slot)
	if r := math.Round(mu); r >= 0 && math.Abs(mu-r) < 1e-9 {
		return int(r)
	}
	return 0
}

// Execute evaluates every run in order. A non-nil Metrics and a positive Workers in overrides
// replace those of the scenario options.
func (s *Scenario) Execute(ctx context.Context, overrides analysis.Options) ([]Outcome, error) {
	opts := s.Options
	if overrides.Metrics != nil {
		opts.Metrics = overrides.Metrics
	}
	if overrides.Workers > 0 {
		opts.Workers = overrides.Workers
	}

	runs := s.RunList()
	outcomes := make([]Outcome, 0, len(runs))
	for _, run := range runs {
		p, err := s.Resolve(run)
		if err != nil {
			return outcomes, errors.Wrapf(err, "run %s", run.Name())
		}
		logger.Infof("evaluating run %s", run.Name())
		res, err := analysis.Evaluate(ctx, p, opts)
		if err != nil {
			return outcomes, errors.Wrapf(err, "run %s", run.Name())
		}
		outcomes = append(outcomes, Outcome{
			Run:    run,
			Params: p,
			Result: res,
			Rows:   kpi.FromResult(res, s.RunInfo(run, p)),
		})
	}
	return outcomes, nil
}

// Rows concatenates the metric rows of all outcomes.
func Rows(outcomes []Outcome) []kpi.Row {
	var rows []kpi.Row
	for _, o := range outcomes {
		rows = append(rows, o.Rows...)
	}
	return rows
}
