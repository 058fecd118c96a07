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

// Package metrics exposes counters of the analytical evaluations as Prometheus collectors. The
// tools have no HTTP endpoint; metrics are written to a textfile for the node exporter.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles the evaluation metrics. All methods are safe on a nil *Collector, so callers
// can pass metrics around optionally.
type Collector struct {
	gatherer prometheus.Gatherer

	Evaluations        prometheus.Counter
	EvaluationFailures prometheus.Counter
	EvaluationDuration prometheus.Histogram
	InnerSamples       prometheus.Counter
	ThresholdBackoffs  prometheus.Counter
	DomainErrors       prometheus.Counter
	SensingThresholdDb prometheus.Gauge
}

// NewCollector registers the evaluation metrics against the provided registerer. A nil
// registerer creates a private registry.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.Evaluations, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "prr_evaluations_total",
		Help: "Number of completed analytical PRR/PIR evaluations.",
	})); err != nil {
		return nil, err
	}
	if c.EvaluationFailures, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "prr_evaluation_failures_total",
		Help: "Number of analytical evaluations that ended with an error.",
	})); err != nil {
		return nil, err
	}
	if c.InnerSamples, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "prr_inner_samples_total",
		Help: "Number of neighbor-distance samples evaluated by the contention model.",
	})); err != nil {
		return nil, err
	}
	if c.ThresholdBackoffs, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "prr_threshold_backoffs_total",
		Help: "Number of 3 dB sensing threshold back-off steps taken.",
	})); err != nil {
		return nil, err
	}
	if c.DomainErrors, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "prr_domain_errors_total",
		Help: "Number of distances without a bounded interference region or with out-of-range probabilities.",
	})); err != nil {
		return nil, err
	}

	hist := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "prr_evaluation_duration_seconds",
		Help:    "Duration of complete analytical evaluations.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})
	if err = reg.Register(hist); err != nil {
		return nil, alreadyRegistered(err, "prr_evaluation_duration_seconds")
	}
	c.EvaluationDuration = hist

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "prr_sensing_threshold_db",
		Help: "Sensing threshold (dB) after the last threshold adjustment.",
	})
	if err = reg.Register(gauge); err != nil {
		return nil, alreadyRegistered(err, "prr_sensing_threshold_db")
	}
	c.SensingThresholdDb = gauge

	return c, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveEvaluation records one finished evaluation and its duration.
func (c *Collector) ObserveEvaluation(d time.Duration, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.EvaluationFailures.Inc()
		return
	}
	c.Evaluations.Inc()
	c.EvaluationDuration.Observe(d.Seconds())
}

func (c *Collector) AddInnerSamples(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.InnerSamples.Add(float64(n))
}

func (c *Collector) AddThresholdBackoffs(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.ThresholdBackoffs.Add(float64(n))
}

func (c *Collector) IncDomainErrors() {
	if c == nil {
		return
	}
	c.DomainErrors.Inc()
}

func (c *Collector) SetSensingThreshold(dbm float64) {
	if c == nil {
		return
	}
	c.SensingThresholdDb.Set(dbm)
}

// WriteTextfile writes all gathered metrics in the Prometheus text format to filename.
func (c *Collector) WriteTextfile(filename string) error {
	if c == nil {
		return errors.Errorf("no metrics collector")
	}
	return errors.Wrapf(prometheus.WriteToTextfile(filename, c.gatherer), "writing metrics to %s", filename)
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, errors.Wrapf(err, "registering counter")
	}
	return counter, nil
}

func alreadyRegistered(err error, name string) error {
	if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
		return errors.Errorf("collector %s already registered", name)
	}
	return errors.Wrapf(err, "registering %s", name)
}
