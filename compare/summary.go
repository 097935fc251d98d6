// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compare

import (
	"fmt"
	"math"

	"github.com/perfharness/perfcmp/benchmath"
)

// A Summary digests a table into counts and one overall ratio.
type Summary struct {
	Improved, Regressed, Unchanged int

	// Missing counts rows present in only one report.
	Missing int

	// Mismatched counts rows flagged with inconsistent units.
	Mismatched int

	// GeoMeanRatio is the geometric mean of variant/baseline over
	// rows with positive values on both sides and consistent
	// units. It is NaN if there are no such rows.
	GeoMeanRatio float64
}

// Summarize computes the Summary of t.
func Summarize(t *Table) Summary {
	var s Summary
	var ratios []float64
	for _, row := range t.Rows {
		if !row.Baseline.Valid || !row.Variant.Valid {
			s.Missing++
			continue
		}
		if row.InconsistentUnit {
			s.Mismatched++
		}
		switch {
		case !row.HasDelta || row.DeltaPct == 0:
			s.Unchanged++
		case row.DeltaPct > 0:
			s.Improved++
		default:
			s.Regressed++
		}
		if !row.InconsistentUnit && row.Baseline.Value > 0 && row.Variant.Value > 0 {
			ratios = append(ratios, row.Variant.Value/row.Baseline.Value)
		}
	}
	s.GeoMeanRatio = benchmath.GeoMean(ratios)
	return s
}

func (s Summary) String() string {
	str := fmt.Sprintf("%d improved, %d regressed, %d unchanged, %d missing", s.Improved, s.Regressed, s.Unchanged, s.Missing)
	if s.Mismatched > 0 {
		str += fmt.Sprintf(", %d with mismatched units", s.Mismatched)
	}
	if !math.IsNaN(s.GeoMeanRatio) {
		str += fmt.Sprintf("; geomean variant/baseline %.4f", s.GeoMeanRatio)
	}
	return str
}
