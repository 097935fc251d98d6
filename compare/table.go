// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compare joins the metrics of a baseline report and a
// variant report into a comparison table and formats that table.
package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/perfharness/perfcmp/benchunit"
	"github.com/perfharness/perfcmp/perffmt"
)

// A Value is one side of a comparison row. Valid is false when the
// metric is missing from that side's report.
type Value struct {
	Value  float64
	Stddev float64
	Unit   string
	Valid  bool
}

// A Row is the joined baseline and variant view of one metric.
type Row struct {
	Name string
	// Unit is the baseline unit, or the variant unit if the metric
	// only exists in the variant.
	Unit string

	Baseline, Variant Value

	// DeltaPct is the relative improvement of the variant over the
	// baseline, (baseline - variant) / baseline * 100. It is only
	// meaningful if HasDelta is set.
	DeltaPct float64
	HasDelta bool

	// InconsistentUnit is set when both sides carry the metric with
	// different units. The delta is still computed from the raw
	// numbers.
	InconsistentUnit bool
}

// A Table is the result of comparing two reports.
type Table struct {
	Kind perffmt.Grammar
	Rows []*Row

	// UnitColumn reports whether formatted output carries the
	// inconsistent_unit column.
	UnitColumn bool

	BaselineFile, VariantFile string

	// Skipped holds the lines of either report that looked like
	// measurements but could not be parsed.
	Skipped []*perffmt.SyntaxError
}

// Options control Compare.
type Options struct {
	// Grammar selects how both reports are read.
	Grammar perffmt.Grammar

	// Dup resolves metrics named more than once in one report.
	Dup perffmt.DupPolicy

	// Unit, if non-empty, is a time unit that every time-valued
	// metric is converted to before the join.
	Unit string

	// Order, if non-nil, sorts the rows after the join.
	Order Order
}

// Compare reads the reports at baselinePath and variantPath and joins
// them.
//
// A report that can't be read fails with an error wrapping
// perffmt.ErrInputNotFound. If either report holds no metrics,
// Compare fails with an error wrapping perffmt.ErrEmptyInput, but
// still returns a Table (with no rows) so the caller can report
// the skipped lines.
func Compare(baselinePath, variantPath string, opts Options) (*Table, error) {
	if opts.Unit != "" && !benchunit.IsTime(opts.Unit) {
		return nil, fmt.Errorf("unknown time unit %q", opts.Unit)
	}
	base, baseErr := perffmt.ReadFile(baselinePath, opts.Grammar, perffmt.Baseline, opts.Dup)
	if base == nil {
		return nil, baseErr
	}
	variant, variantErr := perffmt.ReadFile(variantPath, opts.Grammar, perffmt.Variant, opts.Dup)
	if variant == nil {
		return nil, variantErr
	}

	t := &Table{
		Kind:         opts.Grammar,
		UnitColumn:   opts.Grammar == perffmt.ResultGrammar,
		BaselineFile: baselinePath,
		VariantFile:  variantPath,
	}
	t.Skipped = append(t.Skipped, base.Skipped...)
	t.Skipped = append(t.Skipped, variant.Skipped...)
	if baseErr != nil {
		return t, baseErr
	}
	if variantErr != nil {
		return t, variantErr
	}

	if opts.Unit != "" {
		Normalize(base, opts.Unit)
		Normalize(variant, opts.Unit)
	}
	t.Rows = Join(base, variant)
	if opts.Order != nil {
		Sort(t, opts.Order)
	}
	return t, nil
}

// Normalize converts every time-valued metric in set to unit in
// place. Other metrics are left alone.
func Normalize(set *perffmt.Set, unit string) {
	for _, m := range set.Metrics {
		if !benchunit.IsTime(m.Unit) {
			continue
		}
		v, ok := benchunit.Convert(m.Value, m.Unit, unit)
		if !ok {
			continue
		}
		sd, _ := benchunit.Convert(m.Stddev, m.Unit, unit)
		m.Value, m.Stddev, m.Unit = v, sd, unit
	}
}

// Join outer-joins base and variant by metric name. Rows follow the
// baseline's order, followed by the names only the variant has, in
// the variant's order.
func Join(base, variant *perffmt.Set) []*Row {
	var rows []*Row
	seen := make(map[string]bool)
	for _, b := range base.Metrics {
		name := strings.TrimSpace(b.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		row := &Row{Name: name, Unit: b.Unit, Baseline: valueOf(b)}
		if v, ok := variant.Get(b.Name); ok {
			row.Variant = valueOf(v)
		}
		row.finish()
		rows = append(rows, row)
	}
	for _, v := range variant.Metrics {
		name := strings.TrimSpace(v.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		row := &Row{Name: name, Unit: v.Unit, Variant: valueOf(v)}
		row.finish()
		rows = append(rows, row)
	}
	return rows
}

func valueOf(m *perffmt.Metric) Value {
	return Value{Value: m.Value, Stddev: m.Stddev, Unit: m.Unit, Valid: true}
}

// finish computes the derived columns of r.
func (r *Row) finish() {
	if !r.Baseline.Valid || !r.Variant.Valid {
		return
	}
	r.InconsistentUnit = r.Baseline.Unit != r.Variant.Unit
	r.DeltaPct, r.HasDelta = Delta(r.Baseline.Value, r.Variant.Value)
}

// Delta returns (base - variant) / base * 100. It reports false if
// base is zero or the result is not a finite number.
func Delta(base, variant float64) (float64, bool) {
	if base == 0 {
		return 0, false
	}
	d := (base - variant) / base * 100
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, false
	}
	return d, true
}
