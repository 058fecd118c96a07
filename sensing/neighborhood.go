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
	"gonum.org/v1/gonum/floats"

	"github.com/otns-labs/v2x-prr/radiomodel"
)

// Neighborhood evaluates the sensing integrals for vehicles spread along a line at density beta
// (vehicles per meter) around a transmitter described by a link model. The PSR profile of the
// transmitter over the window is computed once and shared by all queries; a Neighborhood is
// read-only after creation and may be used from multiple goroutines.
type Neighborhood struct {
	beta   float64
	link   *radiomodel.LinkModel
	window Window
	xs     []float64
	psrI   []float64
}

// NewNeighborhood creates a neighborhood for density beta >= 0.
func NewNeighborhood(beta float64, link *radiomodel.LinkModel, w Window) (*Neighborhood, error) {
	if beta < 0 || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return nil, errors.Errorf("invalid traffic density beta: %v", beta)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	xs := w.Positions()
	return &Neighborhood{
		beta:   beta,
		link:   link,
		window: w,
		xs:     xs,
		psrI:   link.PSRs(nil, xs),
	}, nil
}

// Link returns the link model the neighborhood was built for.
func (n *Neighborhood) Link() *radiomodel.LinkModel {
	return n.link
}

// SPSR returns the expected number of neighbors that sense a transmission.
func (n *Neighborhood) SPSR() float64 {
	return n.beta * floats.Sum(n.psrI) * n.window.Step
}

// CommonNeighbors returns the expected number of vehicles that sense both the transmitter and
// a second transmitter at distance dik. The per-position joint sensing probability blends the
// fully correlated estimate min(PSR_i, PSR_k) and the independent estimate PSR_i*PSR_k with
// weight Rho(dik).
func (n *Neighborhood) CommonNeighbors(dik float64) float64 {
	rho := Rho(dik, n.link.Params.ShadowFadingSigmaDb)
	sum := 0.0
	for i, x := range n.xs {
		psrI := n.psrI[i]
		psrK := n.link.PSR(math.Abs(x - dik))
		sum += rho*math.Min(psrI, psrK) + (1-rho)*psrI*psrK
	}
	return n.beta * sum * n.window.Step
}

// Rho is the correlation factor of the sensing outcome at two transmitters dik apart.
//
// The factor decays as exp(-dik) and does not depend on sigma. This matches the reference model;
// whether sigma should scale the decay (e.g. exp(-dik/sigma)) is an open modeling question.
func Rho(dik, sigma float64) float64 {
	_ = sigma
	return math.Exp(-dik)
}

// SPSR returns beta * sum(PSR(x)) over window w for a transmitter at ptDb, receivers sensing at psDb.
func SPSR(beta float64, ptDb, psDb, k0Db, alpha float64, w Window) (float64, error) {
	n, err := NewNeighborhood(beta, radiomodel.NewLinkModel(ptDb, psDb, k0Db, alpha), w)
	if err != nil {
		return 0, err
	}
	return n.SPSR(), nil
}

// CommonNeighbors returns the expected number of common sensing neighbors of two transmitters dik apart.
func CommonNeighbors(beta float64, ptDb, psDb, k0Db, alpha, dik float64, w Window) (float64, error) {
	n, err := NewNeighborhood(beta, radiomodel.NewLinkModel(ptDb, psDb, k0Db, alpha), w)
	if err != nil {
		return 0, err
	}
	return n.CommonNeighbors(dik), nil
}
