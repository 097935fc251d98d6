// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package perffmt reads the human-readable text that profilers and
// benchmark runners print, such as "perf stat" counter reports and
// pyperf result dumps.
//
// Neither format is stable or machine oriented, so the readers are
// tolerant line scrapers rather than strict parsers. Lines that are
// obviously prose are ignored. Lines that look like measurements but
// can't be parsed are reported as *SyntaxError records in the record
// stream and the reader keeps going.
//
// The API follows bufio.Scanner: call Scan until it returns false,
// inspect each record with Result, then check Err.
package perffmt

import "fmt"

// A Source identifies which side of a comparison a metric came from.
type Source int

const (
	// Baseline is the reference run.
	Baseline Source = iota
	// Variant is the run under evaluation.
	Variant
)

func (s Source) String() string {
	switch s {
	case Baseline:
		return "baseline"
	case Variant:
		return "variant"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// A Metric is a single observation read from one report file: a
// counter value from a perf stat report, or a timing from a benchmark
// result dump.
type Metric struct {
	// Name identifies the metric within its file, for example
	// "task-clock" or "deepcopy".
	Name string

	// Unit is the unit the value was reported in, such as "msec"
	// or "us". It is empty for dimensionless counters.
	Unit string

	// Value is the measurement with grouping separators removed.
	Value float64

	// Stddev is the absolute standard deviation reported alongside
	// Value, in the same unit. It is 0 if the report carried none.
	Stddev float64

	// Source records which run produced this metric.
	Source Source

	fileName string
	line     int
}

// Pos returns the file name and 1-based line number this metric was
// read from. For metrics that were not read from a file, it returns
// "", 0.
func (m *Metric) Pos() (fileName string, line int) {
	return m.fileName, m.line
}

// Clone returns a copy of m. Readers reuse their Metric between calls
// to Scan, so callers that retain a metric must clone it.
func (m *Metric) Clone() *Metric {
	m2 := *m
	return &m2
}

// A Record is a single record read from a report. It is either a
// *Metric or a *SyntaxError.
type Record interface {
	// Pos returns the position of this record as a file name and a
	// 1-based line number within that file.
	Pos() (fileName string, line int)
}

var _ Record = (*Metric)(nil)
var _ Record = (*SyntaxError)(nil)

// A SyntaxError reports a line that looked like a measurement but
// could not be parsed. It is never fatal: the line is skipped.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}
