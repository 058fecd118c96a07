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

package kpi

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/otns-labs/v2x-prr/logger"
	. "github.com/otns-labs/v2x-prr/types"
)

// Format is a table serialization.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatYAML:
		return Format(s), nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("unknown table format: %s", s)
	}
}

// Write serializes v, a slice of Row, RangeEntry or Delta, in the given format.
func Write(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatCSV:
		csvWriter := csv.NewWriter(w)
		enc := csvutil.NewEncoder(csvWriter)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding csv")
		}
		csvWriter.Flush()
		return errors.Wrap(csvWriter.Error(), "writing csv")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(enc.Close(), "writing yaml")
	default:
		return errors.Errorf("unknown table format: %s", format)
	}
}

// Save writes v to filename in the given format.
func Save(filename string, format Format, v interface{}) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "creating %s", filename)
	}
	if err = Write(f, format, v); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "saving %s", filename)
	}
	return errors.Wrapf(f.Close(), "closing %s", filename)
}

// ReadCSV decodes metric rows. Columns unknown to Row are ignored and missing columns keep their
// zero value.
func ReadCSV(r io.Reader) ([]Row, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "reading csv header")
	}

	var rows []Row
	for {
		var row Row
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "decoding csv row %d", len(rows)+1)
		}
		rows = append(rows, row)
	}
	if unused := dec.Unused(); len(unused) > 0 {
		logger.Debugf("ignoring %d unknown csv columns", len(unused))
	}
	return rows, nil
}

// LoadCSV reads metric rows from filename.
func LoadCSV(filename string) ([]Row, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", filename)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	return rows, errors.Wrapf(err, "loading %s", filename)
}

// LoadSimMetrics reads the metrics of the system-level simulator. Rows of unknown protocols are
// dropped and beta is derived from the lane count.
func LoadSimMetrics(filename string) ([]Row, error) {
	rows, err := LoadCSV(filename)
	if err != nil {
		return nil, err
	}
	return NormalizeSimRows(rows), nil
}

// NormalizeSimRows drops rows of unknown protocols and sets beta = num_lanes / 40.
func NormalizeSimRows(rows []Row) []Row {
	kept := rows[:0]
	dropped := 0
	for _, r := range rows {
		if r.Protocol() == ProtocolInvalid {
			dropped++
			continue
		}
		r.Beta = LanesToBeta(r.NumLanes)
		kept = append(kept, r)
	}
	if dropped > 0 {
		logger.Warnf("dropped %d simulation rows of unknown protocol types", dropped)
	}
	return kept
}
