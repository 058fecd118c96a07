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

package sensing

import (
	"math"

	"github.com/pkg/errors"
)

const (
	DefaultWindowHalfWidth = 2000.0 // meters; far enough that PSR ~ 0 for realistic link budgets
	DefaultWindowStep      = 1.0    // meters
)

// Window is the discretized neighborhood over which the sensing integrals are summed:
// positions [-HalfWidth, HalfWidth) relative to the transmitter, every Step meters.
type Window struct {
	HalfWidth float64 `yaml:"half_width"`
	Step      float64 `yaml:"step"`
}

// DefaultWindow returns the +/-2000 m window at unit resolution.
func DefaultWindow() Window {
	return Window{
		HalfWidth: DefaultWindowHalfWidth,
		Step:      DefaultWindowStep,
	}
}

// Validate checks that the window describes a non-empty set of positions.
func (w Window) Validate() error {
	if !(w.HalfWidth > 0) || math.IsInf(w.HalfWidth, 0) {
		return errors.Errorf("invalid window half width: %v", w.HalfWidth)
	}
	if !(w.Step > 0) || w.Step > 2*w.HalfWidth {
		return errors.Errorf("invalid window step: %v", w.Step)
	}
	return nil
}

// Positions returns the sample positions of the window, in increasing order.
func (w Window) Positions() []float64 {
	n := int(math.Ceil(2 * w.HalfWidth / w.Step))
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = -w.HalfWidth + float64(i)*w.Step
	}
	return xs
}
