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

// Package kpi converts evaluation results into the tabular metrics shared with the system-level
// simulator (protocol_type, MCS, numerology, distance_bin, cumulative_PDR, cumulative_PIR,
// num_lanes, beta) and compares both sources.
package kpi

import (
	"math"
	"sort"

	"github.com/otns-labs/v2x-prr/analysis"
	. "github.com/otns-labs/v2x-prr/types"
)

const (
	// BetaTolerance is the tolerance used when matching densities of different sources.
	BetaTolerance = 1e-3
	// LaneSpacing converts a lane count into a vehicle density: beta = num_lanes / LaneSpacing.
	LaneSpacing = 40.0
	// DefaultPrrThreshold is the PDR a distance bin must reach to count towards the
	// communication range.
	DefaultPrrThreshold = 0.98

	distanceTolerance = 1e-9
)

// Row is one distance bin of one protocol configuration.
type Row struct {
	ProtocolType  int     `csv:"protocol_type" yaml:"protocol_type"`
	MCS           int     `csv:"MCS" yaml:"MCS"`
	Numerology    int     `csv:"numerology" yaml:"numerology"`
	DistanceBin   float64 `csv:"distance_bin" yaml:"distance_bin"`
	CumulativePDR float64 `csv:"cumulative_PDR" yaml:"cumulative_PDR"`
	CumulativePIR float64 `csv:"cumulative_PIR" yaml:"cumulative_PIR"`
	NumLanes      int     `csv:"num_lanes" yaml:"num_lanes"`
	Beta          float64 `csv:"beta" yaml:"beta"`
}

// Protocol returns the protocol of the row, or ProtocolInvalid for unknown ids.
func (r *Row) Protocol() ProtocolType {
	switch p := ProtocolType(r.ProtocolType); p {
	case ProtocolSpc6g, ProtocolNrv2x:
		return p
	default:
		return ProtocolInvalid
	}
}

// RunInfo labels the rows produced from one evaluation.
type RunInfo struct {
	MCS        int
	Numerology int
	NumLanes   int
}

// LanesToBeta returns the vehicle density of a road with numLanes lanes.
func LanesToBeta(numLanes int) float64 {
	return float64(numLanes) / LaneSpacing
}

// BetaMatches reports whether two densities are equal within BetaTolerance.
func BetaMatches(a, b float64) bool {
	return math.Abs(a-b) < BetaTolerance
}

// FromResult returns the rows of res for both protocols, SPC6G first, in distance order.
func FromResult(res *analysis.Result, info RunInfo) []Row {
	rows := make([]Row, 0, 2*len(res.Distances))
	for _, p := range Protocols {
		prr, pir := res.Prr(p), res.Pir(p)
		for i, d := range res.Distances {
			rows = append(rows, Row{
				ProtocolType:  int(p),
				MCS:           info.MCS,
				Numerology:    info.Numerology,
				DistanceBin:   d,
				CumulativePDR: prr[i],
				CumulativePIR: pir[i],
				NumLanes:      info.NumLanes,
				Beta:          res.Params.Beta,
			})
		}
	}
	return rows
}

// RangeEntry is the communication range of one protocol configuration.
type RangeEntry struct {
	ProtocolType int     `csv:"protocol_type" yaml:"protocol_type"`
	MCS          int     `csv:"MCS" yaml:"MCS"`
	Numerology   int     `csv:"numerology" yaml:"numerology"`
	Beta         float64 `csv:"beta" yaml:"beta"`
	Range        float64 `csv:"communication_range" yaml:"communication_range"`
}

type configKey struct {
	protocol   int
	mcs        int
	numerology int
	beta       float64
}

// groupKey returns the key of r, snapping beta to an already seen density within tolerance.
func groupKey(seen []float64, r *Row) (configKey, []float64) {
	beta := r.Beta
	found := false
	for _, b := range seen {
		if BetaMatches(b, beta) {
			beta, found = b, true
			break
		}
	}
	if !found {
		seen = append(seen, beta)
	}
	return configKey{r.ProtocolType, r.MCS, r.Numerology, beta}, seen
}

// CommunicationRange returns, per protocol, MCS, numerology and beta, the largest distance bin
// whose cumulative PDR is at least threshold. Configurations without such a bin get range 0.
func CommunicationRange(rows []Row, threshold float64) []RangeEntry {
	ranges := map[configKey]float64{}
	var seen []float64
	var key configKey
	for i := range rows {
		key, seen = groupKey(seen, &rows[i])
		best := ranges[key]
		if rows[i].CumulativePDR >= threshold && rows[i].DistanceBin > best {
			best = rows[i].DistanceBin
		}
		ranges[key] = best
	}

	entries := make([]RangeEntry, 0, len(ranges))
	for k, v := range ranges {
		entries = append(entries, RangeEntry{
			ProtocolType: k.protocol,
			MCS:          k.mcs,
			Numerology:   k.numerology,
			Beta:         k.beta,
			Range:        v,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ProtocolType != b.ProtocolType {
			return a.ProtocolType > b.ProtocolType
		}
		if a.Beta != b.Beta {
			return a.Beta < b.Beta
		}
		if a.MCS != b.MCS {
			return a.MCS < b.MCS
		}
		return a.Numerology < b.Numerology
	})
	return entries
}

// Delta is one distance bin present in both the analytical and the simulated metrics.
type Delta struct {
	ProtocolType  int     `csv:"protocol_type" yaml:"protocol_type"`
	MCS           int     `csv:"MCS" yaml:"MCS"`
	Numerology    int     `csv:"numerology" yaml:"numerology"`
	Beta          float64 `csv:"beta" yaml:"beta"`
	DistanceBin   float64 `csv:"distance_bin" yaml:"distance_bin"`
	AnalyticalPDR float64 `csv:"analytical_PDR" yaml:"analytical_PDR"`
	SimulatedPDR  float64 `csv:"simulated_PDR" yaml:"simulated_PDR"`
	DeltaPDR      float64 `csv:"delta_PDR" yaml:"delta_PDR"`
	AnalyticalPIR float64 `csv:"analytical_PIR" yaml:"analytical_PIR"`
	SimulatedPIR  float64 `csv:"simulated_PIR" yaml:"simulated_PIR"`
	DeltaPIR      float64 `csv:"delta_PIR" yaml:"delta_PIR"`
}

// Compare pairs every simulated row with the analytical row of the same protocol, MCS,
// numerology, beta (within BetaTolerance) and distance bin. Deltas are analytical minus
// simulated. Rows without a counterpart are skipped.
func Compare(analytical, simulated []Row) []Delta {
	var deltas []Delta
	for _, s := range simulated {
		a := findMatch(analytical, &s)
		if a == nil {
			continue
		}
		deltas = append(deltas, Delta{
			ProtocolType:  s.ProtocolType,
			MCS:           s.MCS,
			Numerology:    s.Numerology,
			Beta:          s.Beta,
			DistanceBin:   s.DistanceBin,
			AnalyticalPDR: a.CumulativePDR,
			SimulatedPDR:  s.CumulativePDR,
			DeltaPDR:      a.CumulativePDR - s.CumulativePDR,
			AnalyticalPIR: a.CumulativePIR,
			SimulatedPIR:  s.CumulativePIR,
			DeltaPIR:      a.CumulativePIR - s.CumulativePIR,
		})
	}
	return deltas
}

func findMatch(rows []Row, s *Row) *Row {
	for i := range rows {
		r := &rows[i]
		if r.ProtocolType == s.ProtocolType && r.MCS == s.MCS && r.Numerology == s.Numerology &&
			BetaMatches(r.Beta, s.Beta) && math.Abs(r.DistanceBin-s.DistanceBin) < distanceTolerance {
			return r
		}
	}
	return nil
}
