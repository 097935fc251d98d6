// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Stat-compare compares two "perf stat" counter reports.
//
// Usage:
//
//	stat-compare [options] baseline.txt variant.txt -o table.csv
//
// Each input is the text perf stat prints, or anything shaped like
// it. A line whose first non-blank character is a digit is a counter
// line: the number is the value, the rest of the line (minus any "#"
// comment) is the counter name. A parenthesized annotation such as
// "(msec)" is the unit, and so is a leading unit word, as in perf's own
//
//	200.74 msec task-clock   #  0.978 CPUs utilized  ( +-  0.16% )
//
// Other lines are ignored. Counter lines that can't be parsed are
// skipped and counted.
//
// The output joins both reports by counter name, in the baseline's
// order followed by counters only the variant has, with the percent
// improvement (baseline - variant) / baseline * 100:
//
//	name,unit,baseline_value,variant_value,delta_pct
//	task-clock,msec,200.74,150.2,25.176845671017244
//
// A delta cell is empty if either value is missing or the baseline is
// zero.
//
// The -format option selects csv (the default), text or html output.
// The -sort option orders rows by none (input order), delta or name.
// A leading "-" reverses the order. The -dup option selects what to do
// with counters reported more than once: keep the last one, or their
// mean. The -v option lists every skipped line and prints a summary.
//
// Stat-compare exits with status 1 on a usage error, 2 if an input
// can't be read, 3 if an input holds no counters, and 4 if the output
// can't be written. The output file is only replaced on success.
package main

import (
	"os"

	"github.com/perfharness/perfcmp/internal/comparecmd"
	"github.com/perfharness/perfcmp/perffmt"
)

func main() {
	os.Exit(comparecmd.Run("stat-compare", perffmt.StatGrammar, os.Args[1:], os.Stdout, os.Stderr))
}
