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
	"math"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	. "github.com/otns-labs/v2x-prr/types"
)

// Params are the scenario inputs of one analytical evaluation. The yaml names follow the
// parameter names used in the analysis scripts and scenario files.
type Params struct {
	Channels           float64 `yaml:"channels"`          // sub-channels per transmission
	SinrThresholdDb    DbValue `yaml:"sinr_threshold_dB"` // decoding threshold
	Beta               float64 `yaml:"beta"`              // vehicle density (1/m)
	TxPowerDb          DbValue `yaml:"P_t_dB"`
	CarrierFreqGHz     float64 `yaml:"fc"`
	Alpha              float64 `yaml:"alpha"` // path-loss exponent
	SensingThresholdDb DbValue `yaml:"P_s_dB"`
	NoiseDb            DbValue `yaml:"N_0_dB"`
	MaxChannel         float64 `yaml:"maxchannel"` // sub-channels in the band
	Slot               float64 `yaml:"slot"`       // slot duration (s)
	S                  float64 `yaml:"s"`          // share of resources that must stay free
	Rc1                float64 `yaml:"rc1"`
	Rc2                float64 `yaml:"rc2"`
	Rri                float64 `yaml:"rri"`      // resource reservation interval (s)
	PResIk             float64 `yaml:"p_res_ik"` // probability that a colliding neighbor reserved
	MaxDistance        int     `yaml:"max_distance"`
	StepDistance       int     `yaml:"step_distance"`
}

// DefaultParams returns the reference highway scenario: 23 dBm at 5.9 GHz, 20 m vehicle spacing,
// 100 sub-channels of 1 ms slots and a 100 ms reservation interval.
func DefaultParams() Params {
	return Params{
		Channels:           2,
		SinrThresholdDb:    5,
		Beta:               0.05,
		TxPowerDb:          23,
		CarrierFreqGHz:     5.9,
		Alpha:              2.5,
		SensingThresholdDb: -90,
		NoiseDb:            -95,
		MaxChannel:         100,
		Slot:               0.001,
		S:                  0.5,
		Rc1:                2,
		Rc2:                3,
		Rri:                0.1,
		PResIk:             0.1,
		MaxDistance:        200,
		StepDistance:       50,
	}
}

// Validate checks the ranges the model is defined for.
func (p *Params) Validate() error {
	positive := map[string]float64{
		"channels":   p.Channels,
		"beta":       p.Beta,
		"fc":         p.CarrierFreqGHz,
		"alpha":      p.Alpha,
		"maxchannel": p.MaxChannel,
		"slot":       p.Slot,
		"rri":        p.Rri,
	}
	for _, name := range sortedKeys(positive) {
		if v := positive[name]; !(v > 0) || math.IsInf(v, 0) {
			return errors.Errorf("parameter %s must be positive and finite: %v", name, v)
		}
	}

	finite := map[string]float64{
		"sinr_threshold_dB": p.SinrThresholdDb,
		"P_t_dB":            p.TxPowerDb,
		"P_s_dB":            p.SensingThresholdDb,
		"N_0_dB":            p.NoiseDb,
	}
	for _, name := range sortedKeys(finite) {
		if v := finite[name]; math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("parameter %s must be finite: %v", name, v)
		}
	}

	if !(p.S >= 0 && p.S <= 1) {
		return errors.Errorf("parameter s must be in [0, 1]: %v", p.S)
	}
	if !(p.PResIk >= 0 && p.PResIk <= 1) {
		return errors.Errorf("parameter p_res_ik must be in [0, 1]: %v", p.PResIk)
	}
	if !(p.Rc1 >= 0 && p.Rc2 >= 0 && p.Rc1+p.Rc2 > 0) {
		return errors.Errorf("invalid reselection counters rc1 %v, rc2 %v", p.Rc1, p.Rc2)
	}
	if p.Channels > p.MaxChannel {
		return errors.Errorf("channels (%v) exceeds maxchannel (%v)", p.Channels, p.MaxChannel)
	}
	if p.MaxDistance < 0 {
		return errors.Errorf("parameter max_distance must not be negative: %d", p.MaxDistance)
	}
	if p.StepDistance <= 0 {
		return errors.Errorf("parameter step_distance must be positive: %d", p.StepDistance)
	}
	return nil
}

// Distances returns the transmitter-receiver distances of the sweep: 0, step, ... up to and
// including MaxDistance.
func (p *Params) Distances() []float64 {
	if p.StepDistance <= 0 || p.MaxDistance < 0 {
		return nil
	}
	ds := make([]float64, 0, p.MaxDistance/p.StepDistance+1)
	for d := 0; d <= p.MaxDistance; d += p.StepDistance {
		ds = append(ds, float64(d))
	}
	return ds
}

// ResourceUnits returns R, the number of resource units in one reservation interval.
func (p *Params) ResourceUnits() float64 {
	return p.MaxChannel * p.Rri / p.Slot
}

func (p *Params) floatFields() map[string]*float64 {
	return map[string]*float64{
		"channels":          &p.Channels,
		"sinr_threshold_dB": &p.SinrThresholdDb,
		"beta":              &p.Beta,
		"P_t_dB":            &p.TxPowerDb,
		"fc":                &p.CarrierFreqGHz,
		"alpha":             &p.Alpha,
		"P_s_dB":            &p.SensingThresholdDb,
		"N_0_dB":            &p.NoiseDb,
		"maxchannel":        &p.MaxChannel,
		"slot":              &p.Slot,
		"s":                 &p.S,
		"rc1":               &p.Rc1,
		"rc2":               &p.Rc2,
		"rri":               &p.Rri,
		"p_res_ik":          &p.PResIk,
	}
}

func (p *Params) intFields() map[string]*int {
	return map[string]*int{
		"max_distance":  &p.MaxDistance,
		"step_distance": &p.StepDistance,
	}
}

// ParamNames returns the names accepted by Set and Get, sorted.
func ParamNames() []string {
	var p Params
	names := make([]string, 0, 17)
	for name := range p.floatFields() {
		names = append(names, name)
	}
	for name := range p.intFields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set assigns a parameter by its yaml name. Integer parameters reject fractional values.
func (p *Params) Set(name string, value float64) error {
	if f, ok := p.floatFields()[name]; ok {
		*f = value
		return nil
	}
	if f, ok := p.intFields()[name]; ok {
		if value != math.Trunc(value) || math.Abs(value) > math.MaxInt32 {
			return errors.Errorf("parameter %s requires an integer: %v", name, value)
		}
		*f = int(value)
		return nil
	}
	return errors.Errorf("unknown parameter: %s", name)
}

// SetString parses value and assigns it like Set.
func (p *Params) SetString(name string, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.Wrapf(err, "parameter %s", name)
	}
	return p.Set(name, v)
}

// Get returns a parameter by its yaml name.
func (p *Params) Get(name string) (float64, bool) {
	if f, ok := p.floatFields()[name]; ok {
		return *f, true
	}
	if f, ok := p.intFields()[name]; ok {
		return float64(*f), true
	}
	return 0, false
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
