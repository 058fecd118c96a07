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

// Package analysis computes the analytical packet reception ratio (PRR) and packet inter-reception
// time (PIR) of SPC6G and NR-V2X sidelink broadcast over a sweep of transmitter-receiver distances.
package analysis

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/otns-labs/v2x-prr/contention"
	"github.com/otns-labs/v2x-prr/logger"
	"github.com/otns-labs/v2x-prr/progctx"
	"github.com/otns-labs/v2x-prr/radiomodel"
	"github.com/otns-labs/v2x-prr/sensing"
	. "github.com/otns-labs/v2x-prr/types"
)

// maxInnerSamples bounds the neighbor loop of one distance; interference regions larger than
// this are only reached right below the singularity of d_int and are treated as unbounded.
const maxInnerSamples = 10_000_000

// Evaluate runs the threshold adjustment once and then evaluates every distance of the sweep.
// The context is checked between distances.
func Evaluate(ctx context.Context, params Params, opts Options) (res *Result, err error) {
	start := time.Now()
	defer func() {
		opts.Metrics.ObserveEvaluation(time.Since(start), err)
	}()

	if err = params.Validate(); err != nil {
		return nil, err
	}
	if err = opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	ev, err := newEvaluator(params, opts)
	if err != nil {
		return nil, err
	}

	distances := params.Distances()
	points := make([]Point, len(distances))
	if opts.Workers <= 1 || len(distances) <= 1 {
		err = ev.sweepSequential(ctx, distances, points)
	} else {
		err = ev.sweepParallel(ctx, distances, points, opts.Workers)
	}
	if err != nil {
		return nil, err
	}

	res = newResult(params, points)
	res.Resources = ev.resources
	opts.Metrics.AddInnerSamples(res.InnerSamples())
	logger.Debugf("evaluated %d distances in %v (R=%g RU=%.3f P_s=%.1f dB)", len(distances),
		time.Since(start), ev.resources.R, ev.resources.RU, ev.resources.SensingThresholdDb)
	return res, nil
}

// evaluator holds the inputs shared by all distances, converted to linear scale.
type evaluator struct {
	params    Params
	opts      Options
	pt        float64
	k0        float64
	n0        float64
	gamma     float64
	pRes      float64
	innerStep int
	rf        float64
	resources ResourceSummary
	nb        *sensing.Neighborhood
}

func newEvaluator(params Params, opts Options) (*evaluator, error) {
	k0Db := radiomodel.ReferenceGainDb(params.CarrierFreqGHz)
	link := radiomodel.NewLinkModel(params.TxPowerDb, params.SensingThresholdDb, k0Db, params.Alpha)

	rs, err := contention.AdjustSensingThreshold(contention.ThresholdConfig{
		Link:          link,
		Beta:          params.Beta,
		Window:        opts.Window,
		Channels:      params.Channels,
		R:             params.ResourceUnits(),
		S:             params.S,
		MaxIterations: opts.MaxIterations,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sensing threshold adjustment")
	}
	opts.Metrics.AddThresholdBackoffs(rs.Iterations)
	opts.Metrics.SetSensingThreshold(rs.SensingThresholdDb)

	ev := &evaluator{
		params: params,
		opts:   opts,
		pt:     radiomodel.DbToLinear(params.TxPowerDb),
		k0:     radiomodel.DbToLinear(k0Db),
		n0:     radiomodel.DbToLinear(params.NoiseDb),
		gamma:  radiomodel.DbToLinear(params.SinrThresholdDb),
		pRes:   params.PResIk,
		rf:     rs.R - rs.RU,
		nb:     rs.Neighborhood,
		resources: ResourceSummary{
			R:                  rs.R,
			RU:                 rs.RU,
			Spsr:               rs.Spsr,
			SensingThresholdDb: rs.SensingThresholdDb,
			Iterations:         rs.Iterations,
		},
	}
	if opts.ReuseFromOccupancy {
		ev.pRes = rs.RU / rs.R
	}
	ev.innerStep = int(1 / params.Beta)
	if ev.innerStep < 1 {
		ev.innerStep = 1
	}
	if !(ev.rf > 0) {
		return nil, &DomainError{Op: "free resources", Value: ev.rf, Reason: "no resource units left free"}
	}
	return ev, nil
}

func (ev *evaluator) sweepSequential(ctx context.Context, distances []float64, points []Point) error {
	for i, d := range distances {
		if err := ctx.Err(); err != nil {
			return err
		}
		pt, err := ev.point(d)
		if err != nil {
			return err
		}
		points[i] = pt
	}
	return nil
}

func (ev *evaluator) sweepParallel(ctx context.Context, distances []float64, points []Point, workers int) error {
	if workers > len(distances) {
		workers = len(distances)
	}
	group := progctx.New(ctx)
	jobs := make(chan int)

	for w := 0; w < workers; w++ {
		group.Go("distance-worker", func() {
			for i := range jobs {
				pt, err := ev.point(distances[i])
				if err != nil {
					group.Cancel(err)
					continue
				}
				points[i] = pt
			}
		})
	}

feed:
	for i := range distances {
		select {
		case jobs <- i:
		case <-group.Done():
			break feed
		}
	}
	close(jobs)
	group.Wait()

	if err := group.Cause(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	group.Cancel(nil)
	return nil
}

// point evaluates the outage of both protocols at transmitter-receiver distance dij.
func (ev *evaluator) point(dij float64) (Point, error) {
	p := &ev.params
	pt := Point{Distance: dij}

	dInt, err := radiomodel.InterferenceDistance(ev.pt, ev.k0, ev.gamma, dij+1, p.Alpha, ev.n0)
	if err == nil && 2*dInt/float64(ev.innerStep) > maxInnerSamples {
		err = &DomainError{Op: "interference distance", Value: dInt, Reason: "interference region too large"}
	}
	if err != nil {
		return ev.outOfDomain(pt, err)
	}
	pt.InterferenceDistance = dInt

	// truncation toward zero, like the integer bounds of the neighbor loop
	lo := int(dij - dInt)
	hi := int(dij + dInt)
	n := 0
	if hi > lo {
		n = (hi - lo + ev.innerStep - 1) / ev.innerStep
	}
	ps6g := make([]float64, 0, n)
	psNr := make([]float64, 0, n)

	link := ev.nb.Link()
	for dik := lo; dik < hi; dik += ev.innerStep {
		d := math.Abs(float64(dik))
		psr := link.PSR(d)
		cn := ev.nb.CommonNeighbors(d)
		u := contention.UDik(ev.resources.R, ev.resources.RU, cn, ev.resources.Spsr)
		o := contention.ODik(ev.resources.R, ev.resources.RU, u)
		mu := contention.Mu(p.Rc1, p.Rc2, psr)
		pd := contention.PDik(mu, o, p.Channels, ev.rf)

		if !(pd >= 0 && pd <= 1) {
			derr := &DomainError{Op: "collision probability", Value: pd, Reason: "p(d_ik) outside [0, 1]"}
			ev.opts.Metrics.IncDomainErrors()
			if ev.opts.DomainPolicy != DomainOutage {
				return Point{}, errors.Wrapf(derr, "distance %g m, neighbor at %d m", dij, dik)
			}
			logger.Debugf("distance %g m: %v, counted as collision", dij, derr)
			pd = 1
		}

		ps6g = append(ps6g, contention.PsDik(pd, ev.pRes))
		psNr = append(psNr, contention.PsDikNR(pd))
	}

	pt.Samples = len(ps6g)
	logger.AssertTrue(pt.Samples == n, "distance %g m: %d neighbors evaluated, expected %d", dij, pt.Samples, n)
	pt.OutageSpc6g = 1 - floats.Prod(ps6g)
	pt.OutageNrv2x = 1 - floats.Prod(psNr)
	if logger.IsLevelEnabled(logger.TraceLevel) {
		logger.Tracef("distance %g m: d_int %.1f m, %d neighbors, outage SPC6G %.6g NRV2X %.6g",
			dij, dInt, n, pt.OutageSpc6g, pt.OutageNrv2x)
	}
	return pt, nil
}

func (ev *evaluator) outOfDomain(pt Point, err error) (Point, error) {
	ev.opts.Metrics.IncDomainErrors()
	if ev.opts.DomainPolicy != DomainOutage {
		return Point{}, errors.Wrapf(err, "distance %g m", pt.Distance)
	}
	logger.Debugf("distance %g m: %v, reported as outage", pt.Distance, err)
	pt.Unbounded = true
	pt.OutageSpc6g = 1
	pt.OutageNrv2x = 1
	return pt, nil
}
