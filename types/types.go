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
	"strings"

	"github.com/pkg/errors"
)

// DbValue is a power, gain or ratio expressed in dB (or dBm).
type DbValue = float64

// ProtocolType identifies the sidelink scheduling scheme a result belongs to. Numeric values
// follow the protocol_type column of the simulator output files.
type ProtocolType int

const (
	ProtocolNrv2x   ProtocolType = 0
	ProtocolSpc6g   ProtocolType = 2
	ProtocolInvalid ProtocolType = -1
)

// Protocols lists the supported protocol variants, in reporting order.
var Protocols = []ProtocolType{ProtocolSpc6g, ProtocolNrv2x}

func (p ProtocolType) String() string {
	switch p {
	case ProtocolNrv2x:
		return "NRV2X"
	case ProtocolSpc6g:
		return "SPC6G"
	default:
		return fmt.Sprintf("protocol(%d)", int(p))
	}
}

// ParseProtocolType accepts either the protocol name (case-insensitive) or its numeric id.
func ParseProtocolType(s string) (ProtocolType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NRV2X", "NR-V2X", "0":
		return ProtocolNrv2x, nil
	case "SPC6G", "SPS6G", "2":
		return ProtocolSpc6g, nil
	default:
		return ProtocolInvalid, errors.Errorf("invalid protocol type: %s", s)
	}
}

func (p ProtocolType) MarshalText() ([]byte, error) {
	if p != ProtocolNrv2x && p != ProtocolSpc6g {
		return nil, errors.Errorf("invalid protocol type: %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *ProtocolType) UnmarshalText(text []byte) error {
	v, err := ParseProtocolType(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
