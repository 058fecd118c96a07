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

	. "github.com/otns-labs/v2x-prr/types"
)

const outageTolerance = 1e-12

// PRR returns the packet reception ratio for an outage probability.
func PRR(outage float64) float64 {
	return 1 - outage
}

// PIR returns the expected packet inter-reception time for an outage probability and a
// reservation interval rri. It is +Inf when no packet gets through.
func PIR(outage, rri float64) float64 {
	if outage >= 1-outageTolerance {
		return math.Inf(1)
	}
	return rri / (1 - outage)
}

// Point is the evaluation of a single transmitter-receiver distance.
type Point struct {
	Distance             float64
	InterferenceDistance float64 // d_int; 0 when the interference region is unbounded
	Samples              int     // neighbor distances within [d - d_int, d + d_int)
	OutageSpc6g          float64
	OutageNrv2x          float64
	// Unbounded marks a distance without a finite interference region, reported as outage.
	Unbounded bool
}

// ResourceSummary is the converged sensing configuration shared by all distances.
type ResourceSummary struct {
	R                  float64 // resource units per reservation interval
	RU                 float64 // expected occupied units
	Spsr               float64 // expected number of sensed neighbors
	SensingThresholdDb DbValue
	Iterations         int // threshold back-off steps
}

// Result holds the PRR and PIR curves of an evaluation, indexed like Distances.
type Result struct {
	Params    Params
	Resources ResourceSummary
	Points    []Point

	Distances []float64
	PrrSpc6g  []float64
	PrrNrv2x  []float64
	PirSpc6g  []float64
	PirNrv2x  []float64
}

func newResult(params Params, points []Point) *Result {
	n := len(points)
	res := &Result{
		Params:    params,
		Points:    points,
		Distances: make([]float64, n),
		PrrSpc6g:  make([]float64, n),
		PrrNrv2x:  make([]float64, n),
		PirSpc6g:  make([]float64, n),
		PirNrv2x:  make([]float64, n),
	}
	for i, pt := range points {
		res.Distances[i] = pt.Distance
		res.PrrSpc6g[i] = PRR(pt.OutageSpc6g)
		res.PrrNrv2x[i] = PRR(pt.OutageNrv2x)
		res.PirSpc6g[i] = PIR(pt.OutageSpc6g, params.Rri)
		res.PirNrv2x[i] = PIR(pt.OutageNrv2x, params.Rri)
	}
	return res
}

// Prr returns the PRR curve of the given protocol.
func (r *Result) Prr(p ProtocolType) []float64 {
	switch p {
	case ProtocolSpc6g:
		return r.PrrSpc6g
	case ProtocolNrv2x:
		return r.PrrNrv2x
	default:
		return nil
	}
}

// Pir returns the PIR curve of the given protocol.
func (r *Result) Pir(p ProtocolType) []float64 {
	switch p {
	case ProtocolSpc6g:
		return r.PirSpc6g
	case ProtocolNrv2x:
		return r.PirNrv2x
	default:
		return nil
	}
}

// CommunicationRange returns the largest distance at which the PRR of p is at least threshold,
// or 0 if there is none.
func (r *Result) CommunicationRange(p ProtocolType, threshold float64) float64 {
	prr := r.Prr(p)
	best := 0.0
	for i, v := range prr {
		if v >= threshold && r.Distances[i] > best {
			best = r.Distances[i]
		}
	}
	return best
}

// InnerSamples returns the total number of neighbor distances evaluated.
func (r *Result) InnerSamples() int {
	n := 0
	for _, pt := range r.Points {
		n += pt.Samples
	}
	return n
}
