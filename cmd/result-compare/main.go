// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Result-compare compares two benchmark suite result dumps, such as
// the output of pyperformance or pyperf.
//
// Usage:
//
//	result-compare [options] baseline.txt variant.txt -o table.csv
//
// A result line has the form
//
//	name: value unit [+- stddev unit]
//
// for example
//
//	deepcopy: Mean +- std dev: 665 us +- 4 us
//
// The name is the text before the first colon. A label such as
// "Mean +- std dev:" before the value is dropped. Lines without a
// colon are ignored, and key: value lines that don't hold a
// measurement are skipped and counted. If a benchmark appears more
// than once, as with calibration runs before the final run, the last
// occurrence wins unless -dup mean is given.
//
// The output joins both dumps by benchmark name like stat-compare,
// with an extra inconsistent_unit column that flags benchmarks
// measured in different units on each side:
//
//	name,unit,baseline_value,variant_value,delta_pct,inconsistent_unit
//	deepcopy,us,665,500,24.81203007518797,false
//
// The -unit option converts every time value to one unit (ns, us, ms
// or sec) before the join, which avoids most unit mismatches.
// The other options and the exit status are those of stat-compare.
package main

import (
	"os"

	"github.com/perfharness/perfcmp/internal/comparecmd"
	"github.com/perfharness/perfcmp/perffmt"
)

func main() {
	os.Exit(comparecmd.Run("result-compare", perffmt.ResultGrammar, os.Args[1:], os.Stdout, os.Stderr))
}
