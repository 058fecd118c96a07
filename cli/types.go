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

package cli

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/otns-labs/v2x-prr/analysis"
	"github.com/otns-labs/v2x-prr/kpi"
)

// resourceState is the yaml view of the converged sensing configuration.
type resourceState struct {
	R                  float64 `yaml:"R"`
	RU                 float64 `yaml:"RU"`
	Spsr               float64 `yaml:"SPSR"`
	SensingThresholdDb float64 `yaml:"P_s_dB"`
	Iterations         int     `yaml:"iterations"`
}

// unquote strips the quotes of a string literal, if the lexer left them in place.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '`') {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}

// formatOf returns the explicit table format, or the one matching the file extension.
func formatOf(filename string, explicit string) (kpi.Format, error) {
	if explicit != "" {
		return kpi.ParseFormat(explicit)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return kpi.FormatCSV, nil
	}
	f, err := kpi.ParseFormat(ext)
	return f, errors.Wrapf(err, "file %s", filename)
}

// ApplyAssignments applies parsed overrides to params in order.
func ApplyAssignments(params *analysis.Params, assignments []Assignment) error {
	for _, a := range assignments {
		v, err := a.Float()
		if err != nil {
			return err
		}
		if err = params.Set(a.Key, v); err != nil {
			return err
		}
	}
	return nil
}
