// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compare

import (
	"fmt"
	"io"

	"github.com/perfharness/perfcmp/benchmath"
	"github.com/perfharness/perfcmp/benchunit"
	"github.com/perfharness/perfcmp/internal/texttab"
)

// FormatText writes a fixed-width text formatting of t to w.
//
// Both values of a row are tidied into base units and share one SI
// scale so they line up.
func FormatText(w io.Writer, t *Table) error {
	var tab texttab.Table
	tab.Row().Cell("name").Cell("baseline").Cell("variant").Cell("delta", texttab.Right)
	for _, row := range t.Rows {
		b, v, scaler := row.tidy()
		tab.Row().Cell(row.Name)
		tab.Cell(b.text(scaler), texttab.LeftMargin("  "))
		tab.Cell(v.text(scaler), texttab.LeftMargin("  "))
		delta := ""
		if row.HasDelta {
			delta = fmt.Sprintf("%+.2f%%", row.DeltaPct)
		}
		tab.Cell(delta, texttab.Right, texttab.LeftMargin("  "))
		if row.InconsistentUnit {
			tab.Cell("(unit mismatch)", texttab.LeftMargin("  "))
		}
	}
	return tab.Format(w)
}

// tidy returns both values of r in base units and the scale they
// share.
func (r *Row) tidy() (b, v Value, s benchunit.Scaler) {
	b, v = r.Baseline.tidy(), r.Variant.tidy()
	var vals []float64
	for _, x := range []Value{b, v} {
		if x.Valid {
			vals = append(vals, x.Value)
		}
	}
	return b, v, benchunit.CommonScale(vals)
}

func (v Value) tidy() Value {
	if !v.Valid {
		return v
	}
	val, unit := benchunit.Tidy(v.Value, v.Unit)
	sd, _ := benchunit.Tidy(v.Stddev, v.Unit)
	return Value{Value: val, Stddev: sd, Unit: unit, Valid: true}
}

func (v Value) text(s benchunit.Scaler) string {
	if !v.Valid {
		return "-"
	}
	str := s.Format(v.Value)
	if v.Unit != "" {
		str += " " + v.Unit
	}
	if sd := benchmath.PctStddevString(v.Value, v.Stddev); sd != "" {
		str += " " + sd
	}
	return str
}
