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
	"strings"

	"github.com/pkg/errors"

	"github.com/otns-labs/v2x-prr/metrics"
	"github.com/otns-labs/v2x-prr/sensing"
)

// DomainPolicy selects how distances outside the model's numeric domain are reported.
type DomainPolicy int

const (
	// DomainFail aborts the evaluation with a *types.DomainError.
	DomainFail DomainPolicy = iota
	// DomainOutage reports such distances as full outage: PRR 0 and PIR +Inf.
	DomainOutage
)

func (p DomainPolicy) String() string {
	switch p {
	case DomainFail:
		return "fail"
	case DomainOutage:
		return "outage"
	default:
		return "invalid"
	}
}

func ParseDomainPolicy(s string) (DomainPolicy, error) {
	switch strings.ToLower(s) {
	case "", "fail":
		return DomainFail, nil
	case "outage":
		return DomainOutage, nil
	default:
		return DomainFail, errors.Errorf("invalid domain policy: %s", s)
	}
}

func (p DomainPolicy) MarshalText() ([]byte, error) {
	if p != DomainFail && p != DomainOutage {
		return nil, errors.Errorf("invalid domain policy: %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *DomainPolicy) UnmarshalText(text []byte) error {
	v, err := ParseDomainPolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Options tune how an evaluation is carried out. The zero value is valid.
type Options struct {
	Window        sensing.Window `yaml:"window"`
	MaxIterations int            `yaml:"max_iterations"`
	DomainPolicy  DomainPolicy   `yaml:"domain_policy"`
	// ReuseFromOccupancy uses the occupancy RU/R as the reservation probability of a colliding
	// neighbor instead of the p_res_ik parameter, as the first analysis scripts did.
	ReuseFromOccupancy bool `yaml:"reuse_from_occupancy"`
	// Workers evaluating distances concurrently; 0 or 1 evaluates sequentially.
	Workers int                `yaml:"workers"`
	Metrics *metrics.Collector `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		Window:  sensing.DefaultWindow(),
		Workers: 1,
	}
}

func (o Options) withDefaults() Options {
	if o.Window == (sensing.Window{}) {
		o.Window = sensing.DefaultWindow()
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	if err := o.Window.Validate(); err != nil {
		return err
	}
	if o.MaxIterations < 0 {
		return errors.Errorf("invalid max iterations: %d", o.MaxIterations)
	}
	if o.DomainPolicy != DomainFail && o.DomainPolicy != DomainOutage {
		return errors.Errorf("invalid domain policy: %d", int(o.DomainPolicy))
	}
	return nil
}
