// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compare

import (
	"math"
	"strings"
	"testing"

	"github.com/perfharness/perfcmp/perffmt"
)

func sampleTable(t *testing.T) *Table {
	base := set(t, perffmt.StatGrammar, perffmt.Baseline, "200 msec task-clock\n400 instructions\n8 cycles\n")
	variant := set(t, perffmt.StatGrammar, perffmt.Variant, "150 msec task-clock\n600 instructions\n")
	return &Table{
		Kind:         perffmt.StatGrammar,
		Rows:         Join(base, variant),
		BaselineFile: "base.txt",
		VariantFile:  "variant.txt",
	}
}

func TestFormatText(t *testing.T) {
	var buf strings.Builder
	if err := FormatText(&buf, sampleTable(t)); err != nil {
		t.Fatal(err)
	}
	want := `name          baseline    variant       delta
task-clock    200.0m sec  150.0m sec  +25.00%
instructions  400.0       600.0       -50.00%
cycles        8.000       -
`
	if got := buf.String(); got != want {
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}
}

func TestFormatHTML(t *testing.T) {
	var buf strings.Builder
	if err := FormatHTML(&buf, sampleTable(t)); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{
		"<title>stat comparison</title>",
		"<th>base.txt<th>variant.txt<th>delta",
		"<tr class='better'><td>task-clock<td>200.0m sec<td>150.0m sec<td class='delta'>+25.00%",
		"<tr class='worse'><td>instructions",
		"<tr class='unchanged'><td>cycles<td>8.000<td>-<td class='delta'><td class='note'>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestSort(t *testing.T) {
	names := func(tab *Table) string {
		var out []string
		for _, r := range tab.Rows {
			out = append(out, r.Name)
		}
		return strings.Join(out, ",")
	}
	for _, test := range []struct {
		order string
		want  string
	}{
		{"none", "task-clock,instructions,cycles"},
		{"name", "cycles,instructions,task-clock"},
		{"-name", "task-clock,instructions,cycles"},
		{"delta", "instructions,task-clock,cycles"},
		{"-delta", "cycles,task-clock,instructions"},
	} {
		tab := sampleTable(t)
		order, err := ParseOrder(test.order)
		if err != nil {
			t.Fatal(err)
		}
		if order != nil {
			Sort(tab, order)
		}
		if got := names(tab); got != test.want {
			t.Errorf("sort %s: got %s, want %s", test.order, got, test.want)
		}
	}
	if _, err := ParseOrder("size"); err == nil {
		t.Error("ParseOrder(size) succeeded")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTable(t))
	if s.Improved != 1 || s.Regressed != 1 || s.Unchanged != 0 || s.Missing != 1 {
		t.Errorf("got %+v", s)
	}
	// sqrt(0.75 * 1.5)
	if want := math.Sqrt(1.125); math.Abs(s.GeoMeanRatio-want) > 1e-12 {
		t.Errorf("geomean = %v, want %v", s.GeoMeanRatio, want)
	}
	want := "1 improved, 1 regressed, 0 unchanged, 1 missing; geomean variant/baseline 1.0607"
	if got := s.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if s := Summarize(&Table{}); !math.IsNaN(s.GeoMeanRatio) {
		t.Errorf("empty table geomean = %v, want NaN", s.GeoMeanRatio)
	}
}
