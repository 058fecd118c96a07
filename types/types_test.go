// Copyright (c) 2020, The OTNS Authors.
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

package types

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestProtocolType(t *testing.T) {
	assert.Equal(t, "NRV2X", ProtocolNrv2x.String())
	assert.Equal(t, "SPC6G", ProtocolSpc6g.String())

	p, err := ParseProtocolType("2")
	assert.Nil(t, err)
	assert.Equal(t, ProtocolSpc6g, p)
	p, err = ParseProtocolType("nrv2x")
	assert.Nil(t, err)
	assert.Equal(t, ProtocolNrv2x, p)
	_, err = ParseProtocolType("1")
	assert.NotNil(t, err)
	assert.Contains(t, fmt.Sprintf("%+v", err), "types.ParseProtocolType")

	var q ProtocolType
	assert.Nil(t, q.UnmarshalText([]byte("SPC6G")))
	assert.Equal(t, ProtocolSpc6g, q)
	txt, err := q.MarshalText()
	assert.Nil(t, err)
	assert.Equal(t, "SPC6G", string(txt))
	_, err = ProtocolInvalid.MarshalText()
	assert.NotNil(t, err)
}

func TestErrorsAs(t *testing.T) {
	var err error = errors.Wrap(&ConvergenceError{Iterations: 100, Limit: 100, LastRU: 9000, TargetRU: 5000}, "wrapped")
	var ce *ConvergenceError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, 100, ce.Iterations)

	err = errors.Wrap(&DomainError{Op: "interference distance", Value: -1, Reason: "denominator <= 0"}, "wrapped")
	var de *DomainError
	assert.True(t, errors.As(err, &de))
	assert.Contains(t, de.Error(), "interference distance")
}
