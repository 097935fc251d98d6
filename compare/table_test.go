// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compare

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/perfharness/perfcmp/perffmt"
)

func set(t *testing.T, g perffmt.Grammar, src perffmt.Source, data string) *perffmt.Set {
	t.Helper()
	s, err := perffmt.Collect(perffmt.NewReader(strings.NewReader(data), "test", g, src), perffmt.DupLast)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func val(v float64, unit string) Value {
	return Value{Value: v, Unit: unit, Valid: true}
}

func TestJoin(t *testing.T) {
	base := set(t, perffmt.StatGrammar, perffmt.Baseline, "200 A\n400 B\n")
	variant := set(t, perffmt.StatGrammar, perffmt.Variant, "600 B\n7 C\n")
	got := Join(base, variant)
	want := []*Row{
		{Name: "A", Baseline: val(200, "")},
		{Name: "B", Baseline: val(400, ""), Variant: val(600, ""), DeltaPct: -50, HasDelta: true},
		{Name: "C", Variant: val(7, "")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Join mismatch (-want +got):\n%s", diff)
	}
}

func TestJoinCompleteness(t *testing.T) {
	base := set(t, perffmt.StatGrammar, perffmt.Baseline, "1 a\n2 b\n3 c\n4 b\n5 d\n")
	variant := set(t, perffmt.StatGrammar, perffmt.Variant, "1 e\n2 c\n3 a\n4 e\n")
	rows := Join(base, variant)
	count := make(map[string]int)
	for _, r := range rows {
		count[r.Name]++
		_, inBase := base.Get(r.Name)
		_, inVariant := variant.Get(r.Name)
		if r.Baseline.Valid != inBase || r.Variant.Valid != inVariant {
			t.Errorf("row %s: baseline valid %v, variant valid %v; want %v, %v", r.Name, r.Baseline.Valid, r.Variant.Valid, inBase, inVariant)
		}
	}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if count[name] != 1 {
			t.Errorf("%s appears %d times, want 1", name, count[name])
		}
	}
	if len(rows) != 5 {
		t.Errorf("got %d rows, want 5", len(rows))
	}
}

func TestDelta(t *testing.T) {
	for _, test := range []struct {
		base, variant float64
		want          float64
		ok            bool
	}{
		{200, 150, 25, true},
		{400, 600, -50, true},
		{8, 8, 0, true},
		{0, 5, 0, false},
		{0, 0, 0, false},
		{math.NaN(), 1, 0, false},
		{1, math.Inf(1), 0, false},
	} {
		got, ok := Delta(test.base, test.variant)
		if ok != test.ok || (ok && got != test.want) {
			t.Errorf("Delta(%v, %v) = %v, %v; want %v, %v", test.base, test.variant, got, ok, test.want, test.ok)
		}
	}
}

func TestUnitMismatch(t *testing.T) {
	base := set(t, perffmt.ResultGrammar, perffmt.Baseline, "x: 200 ms\n")
	variant := set(t, perffmt.ResultGrammar, perffmt.Variant, "x: 150 us\n")
	rows := Join(base, variant)
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	r := rows[0]
	if !r.InconsistentUnit || r.Unit != "ms" {
		t.Errorf("got unit %q, inconsistent %v; want ms, true", r.Unit, r.InconsistentUnit)
	}
	if !r.HasDelta || r.DeltaPct != 25 {
		t.Errorf("got delta %v, %v; want 25, true", r.DeltaPct, r.HasDelta)
	}
}

func TestNormalize(t *testing.T) {
	s := set(t, perffmt.ResultGrammar, perffmt.Baseline, "a: 665 us +- 4 us\nb: 3 ops\n")
	Normalize(s, "ms")
	a, _ := s.Get("a")
	if a.Value != 0.665 || a.Stddev != 0.004 || a.Unit != "ms" {
		t.Errorf("a = %v ± %v %s, want 0.665 ± 0.004 ms", a.Value, a.Stddev, a.Unit)
	}
	b, _ := s.Get("b")
	if b.Value != 3 || b.Unit != "ops" {
		t.Errorf("b = %v %s, want 3 ops", b.Value, b.Unit)
	}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0666); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCompare(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"base.txt":    " Performance counter stats:\n\n  200  task-clock (msec)\n  400  instructions\n  8  cycles\n",
		"variant.txt": "  150  task-clock (msec) # 0.9 CPUs\n  600  instructions\n  garbage\n  1x broken\n",
		"empty.txt":   " Performance counter stats:\n\n# nothing\n",
	})
	path := func(name string) string { return filepath.Join(dir, name) }

	tab, err := Compare(path("base.txt"), path("variant.txt"), Options{Grammar: perffmt.StatGrammar})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tab); err != nil {
		t.Fatal(err)
	}
	want := "name,unit,baseline_value,variant_value,delta_pct\n" +
		"task-clock,msec,200,150,25\n" +
		"instructions,,400,600,-50\n" +
		"cycles,,8,,\n"
	if got := buf.String(); got != want {
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}
	if len(tab.Skipped) != 1 {
		t.Errorf("got %d skipped lines, want 1", len(tab.Skipped))
	}

	// The same inputs produce byte-identical output.
	tab2, err := Compare(path("base.txt"), path("variant.txt"), Options{Grammar: perffmt.StatGrammar})
	if err != nil {
		t.Fatal(err)
	}
	var buf2 bytes.Buffer
	if err := WriteCSV(&buf2, tab2); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
		t.Errorf("second run differs:\n%s", buf2.String())
	}

	_, err = Compare(path("missing.txt"), path("variant.txt"), Options{Grammar: perffmt.StatGrammar})
	if !errors.Is(err, perffmt.ErrInputNotFound) {
		t.Errorf("missing baseline: got %v, want ErrInputNotFound", err)
	}
	_, err = Compare(path("base.txt"), path("missing.txt"), Options{Grammar: perffmt.StatGrammar})
	if !errors.Is(err, perffmt.ErrInputNotFound) {
		t.Errorf("missing variant: got %v, want ErrInputNotFound", err)
	}
	tab, err = Compare(path("base.txt"), path("empty.txt"), Options{Grammar: perffmt.StatGrammar})
	if !errors.Is(err, perffmt.ErrEmptyInput) {
		t.Errorf("empty variant: got %v, want ErrEmptyInput", err)
	}
	if tab == nil || len(tab.Rows) != 0 {
		t.Errorf("empty variant: want a table without rows, got %+v", tab)
	}
	_, err = Compare(path("base.txt"), path("variant.txt"), Options{Grammar: perffmt.StatGrammar, Unit: "parsecs"})
	if err == nil {
		t.Error("unknown -unit succeeded")
	}
}

func TestCompareResults(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"base.txt":    "warmup: 1.0 sec\nwarmup: 1.0 sec\nwarmup: 0.9 sec\ndeepcopy: Mean +- std dev: 665 us +- 4 us\n",
		"variant.txt": "deepcopy: Mean +- std dev: 0.5 ms +- 0.01 ms\nwarmup: 0.9 sec\n",
	})
	tab, err := Compare(filepath.Join(dir, "base.txt"), filepath.Join(dir, "variant.txt"),
		Options{Grammar: perffmt.ResultGrammar, Unit: "us", Order: ByName})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tab); err != nil {
		t.Fatal(err)
	}
	want := "name,unit,baseline_value,variant_value,delta_pct,inconsistent_unit\n" +
		"deepcopy,us,665,500,24.81203007518797,false\n" +
		"warmup,us,900000,900000,0,false\n"
	if got := buf.String(); got != want {
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}
}
