// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compare

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/perfharness/perfcmp/benchunit"
)

// Header returns the CSV header row of t.
func (t *Table) Header() []string {
	hdr := []string{"name", "unit", "baseline_value", "variant_value", "delta_pct"}
	if t.UnitColumn {
		hdr = append(hdr, "inconsistent_unit")
	}
	return hdr
}

// Record returns the CSV cells of r. Missing values and deltas are
// empty cells.
func (r *Row) Record(unitColumn bool) []string {
	rec := []string{r.Name, r.Unit, r.Baseline.csv(), r.Variant.csv(), ""}
	if r.HasDelta {
		rec[4] = benchunit.NoOpScaler.Format(r.DeltaPct)
	}
	if unitColumn {
		rec = append(rec, strconv.FormatBool(r.InconsistentUnit))
	}
	return rec
}

func (v Value) csv() string {
	if !v.Valid {
		return ""
	}
	return benchunit.NoOpScaler.Format(v.Value)
}

// WriteCSV writes t to w as comma-separated values with a header row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row.Record(t.UnitColumn)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
