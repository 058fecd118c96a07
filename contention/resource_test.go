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

package contention

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRU(t *testing.T) {
	assert.Equal(t, 0.0, RU(10000, 0, 2e-4))
	assert.InDelta(t, 83.58250543556545, RU(10000, 41.96268609550501, 2.0/10000), 1e-8)
	// saturates at R
	assert.InDelta(t, 100.0, RU(100, 1e6, 0.5), 1e-9)
}

func TestUDikODik(t *testing.T) {
	r, ru, spsr := 10000.0, 80.0, 40.0
	// no common neighbors: independent selection
	assert.InDelta(t, ru*ru/r, UDik(r, ru, 0, spsr), 1e-12)
	// all neighbors common: full reuse
	assert.InDelta(t, ru, UDik(r, ru, spsr, spsr), 1e-12)
	assert.InDelta(t, ru*ru/r, UDik(r, ru, 10, 0), 1e-12)

	assert.InDelta(t, r-2*ru+ru, ODik(r, ru, ru), 1e-12)
}

func TestMu(t *testing.T) {
	assert.Equal(t, 1.0, Mu(2, 3, 0))
	assert.InDelta(t, 0.4, Mu(2, 3, 1), 1e-12)
	// single reselection value: sensing never avoids a collision
	assert.InDelta(t, 1.0, Mu(1, 1, 0.7), 1e-12)
}

func TestPDik(t *testing.T) {
	assert.InDelta(t, 0.5*1000*math.Pow(2.0/100, 2), PDik(0.5, 1000, 2, 100), 1e-12)
	assert.Equal(t, 0.0, PDik(0, 1000, 2, 100))
}

func TestPsDik(t *testing.T) {
	assert.Equal(t, 1.0, PsDik(0, 0.3))
	assert.Equal(t, 1.0, PsDik(0.4, 0))
	assert.InDelta(t, 0.6, PsDik(0.4, 1), 1e-12)
	assert.InDelta(t, 0.6, PsDikNR(0.4), 1e-12)
	assert.Equal(t, 0.0, PsDikNR(1))

	// SPC6G is never worse than NR-V2X, and decreases with pRes
	for _, p := range []float64{0, 0.1, 0.5, 1} {
		assert.True(t, PsDik(p, 0.5) >= PsDikNR(p))
		assert.True(t, PsDik(p, 0.2) >= PsDik(p, 0.8))
	}
}

func TestCertainCollision(t *testing.T) {
	// no occupied units and channels^2 = R
	r, ru := 4.0, 0.0
	o := ODik(r, ru, UDik(r, ru, 0, 0))
	assert.Equal(t, r, o)
	pd := PDik(Mu(2, 3, 0), o, 2, r-ru)
	assert.Equal(t, 1.0, pd)
	assert.Equal(t, 0.0, PsDikNR(pd))
	assert.Equal(t, 0.0, PsDik(pd, 1))
	assert.Equal(t, 1.0, PsDik(pd, 0))
}
