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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/otns-labs/v2x-prr/radiomodel"
)

const k0Db = -47.817040232842885 // fc = 5.9 GHz

func TestWindow(t *testing.T) {
	w := DefaultWindow()
	assert.Nil(t, w.Validate())
	xs := w.Positions()
	assert.Len(t, xs, 4000)
	assert.Equal(t, -2000.0, xs[0])
	assert.Equal(t, 1999.0, xs[len(xs)-1])

	xs = Window{HalfWidth: 10, Step: 4}.Positions()
	assert.Equal(t, []float64{-10, -6, -2, 2, 6}, xs)

	assert.NotNil(t, Window{HalfWidth: 0, Step: 1}.Validate())
	assert.NotNil(t, Window{HalfWidth: 10, Step: 0}.Validate())
	assert.NotNil(t, Window{HalfWidth: 10, Step: 30}.Validate())
}

func TestSPSR(t *testing.T) {
	spsr, err := SPSR(0.05, 23, -90, k0Db, 2.5, DefaultWindow())
	assert.Nil(t, err)
	assert.InDelta(t, 41.96268609550501, spsr, 1e-6)

	// a narrower window truncates the integral
	spsr500, err := SPSR(0.05, 23, -90, k0Db, 2.5, Window{HalfWidth: 500, Step: 1})
	assert.Nil(t, err)
	assert.InDelta(t, 39.945717231038856, spsr500, 1e-6)

	// linear in beta
	spsr2, err := SPSR(0.1, 23, -90, k0Db, 2.5, DefaultWindow())
	assert.Nil(t, err)
	assert.InDelta(t, 2*spsr, spsr2, 1e-9)

	spsr0, err := SPSR(0, 23, -90, k0Db, 2.5, DefaultWindow())
	assert.Nil(t, err)
	assert.Equal(t, 0.0, spsr0)

	_, err = SPSR(-0.1, 23, -90, k0Db, 2.5, DefaultWindow())
	assert.NotNil(t, err)
}

func TestCommonNeighbors(t *testing.T) {
	n, err := NewNeighborhood(0.05, radiomodel.NewLinkModel(23, -90, k0Db, 2.5), DefaultWindow())
	assert.Nil(t, err)

	// co-located transmitters share all sensing neighbors
	assert.InDelta(t, n.SPSR(), n.CommonNeighbors(0), 1e-9)
	assert.InDelta(t, 34.210724989578, n.CommonNeighbors(100), 1e-6)

	prev := n.CommonNeighbors(0)
	for _, d := range []float64{1, 10, 100, 500, 1000} {
		cn := n.CommonNeighbors(d)
		assert.True(t, cn >= 0)
		assert.True(t, cn <= prev+1e-9)
		prev = cn
	}

	cn, err := CommonNeighbors(0, 23, -90, k0Db, 2.5, 50, DefaultWindow())
	assert.Nil(t, err)
	assert.Equal(t, 0.0, cn)
}

func TestRho(t *testing.T) {
	assert.Equal(t, 1.0, Rho(0, 3))
	assert.Equal(t, Rho(2, 3), Rho(2, 100))
	assert.InDelta(t, 0.36787944117144233, Rho(1, 3), 1e-15)
}
