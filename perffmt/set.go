// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perffmt

import (
	"fmt"

	"github.com/perfharness/perfcmp/benchmath"
)

// A DupPolicy decides what happens when a report names the same metric
// more than once, as with calibration runs followed by the final run,
// or per-repetition lines.
type DupPolicy int

const (
	// DupLast keeps the last occurrence. The metric keeps the
	// position of its first occurrence.
	DupLast DupPolicy = iota

	// DupMean averages all occurrences and reports their sample
	// standard deviation. A change of unit restarts the average.
	DupMean
)

func (p DupPolicy) String() string {
	switch p {
	case DupLast:
		return "last"
	case DupMean:
		return "mean"
	}
	return fmt.Sprintf("DupPolicy(%d)", int(p))
}

// ParseDupPolicy parses the String form of a DupPolicy.
func ParseDupPolicy(s string) (DupPolicy, error) {
	switch s {
	case "last":
		return DupLast, nil
	case "mean":
		return DupMean, nil
	}
	return 0, fmt.Errorf("unknown duplicate policy %q (want last or mean)", s)
}

// A Set holds the metrics of one report keyed by name, in the order
// names were first seen.
type Set struct {
	Metrics []*Metric

	// Skipped lists the lines that looked like measurements but
	// could not be parsed.
	Skipped []*SyntaxError

	dup     DupPolicy
	index   map[string]int
	samples map[string][]float64
}

// NewSet returns an empty Set that resolves duplicates with dup.
func NewSet(dup DupPolicy) *Set {
	return &Set{dup: dup, index: make(map[string]int)}
}

// Get returns the metric named name.
func (s *Set) Get(name string) (*Metric, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.Metrics[i], true
}

// Add adds a copy of m to the set.
func (s *Set) Add(m *Metric) {
	i, ok := s.index[m.Name]
	if !ok {
		s.index[m.Name] = len(s.Metrics)
		s.Metrics = append(s.Metrics, m.Clone())
		if s.dup == DupMean {
			s.setSamples(m.Name, []float64{m.Value})
		}
		return
	}

	have := s.Metrics[i]
	if s.dup != DupMean || have.Unit != m.Unit {
		s.Metrics[i] = m.Clone()
		if s.dup == DupMean {
			s.setSamples(m.Name, []float64{m.Value})
		}
		return
	}

	xs := append(s.samples[m.Name], m.Value)
	s.setSamples(m.Name, xs)
	sample := benchmath.NewSample(xs)
	avg := m.Clone()
	avg.Value = sample.Mean()
	avg.Stddev = sample.StdDev()
	s.Metrics[i] = avg
}

func (s *Set) setSamples(name string, xs []float64) {
	if s.samples == nil {
		s.samples = make(map[string][]float64)
	}
	s.samples[name] = xs
}

// Collect drains r into a new Set. Syntax errors are recorded in
// Set.Skipped. The returned error is r's I/O error, if any.
func Collect(r *Reader, dup DupPolicy) (*Set, error) {
	set := NewSet(dup)
	for r.Scan() {
		switch rec := r.Result().(type) {
		case *Metric:
			set.Add(rec)
		case *SyntaxError:
			set.Skipped = append(set.Skipped, rec)
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return set, nil
}
