// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchmath computes the few statistics the comparison
// pipeline needs over repeated measurements: means and standard
// deviations of duplicated metrics, and geometric means of ratios.
//
// This is deliberately not a significance testing package. Reports
// are compared by simple percentage deltas.
package benchmath

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// A Sample is a set of repeated measurements of one metric.
type Sample struct {
	// Values are the measured values, in the order observed.
	Values []float64
}

// NewSample constructs a Sample from a copy of values.
func NewSample(values []float64) *Sample {
	return &Sample{append([]float64(nil), values...)}
}

// Mean returns the arithmetic mean of the sample, or NaN if it is
// empty.
func (s *Sample) Mean() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return stats.Mean(s.Values)
}

// StdDev returns the sample standard deviation. Samples of fewer than
// two values have no spread and return 0.
func (s *Sample) StdDev() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stats.StdDev(s.Values)
}

// GeoMean returns the geometric mean of xs. All values must be
// positive. It returns NaN if xs is empty or holds a non-positive
// value.
func GeoMean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	for _, x := range xs {
		if !(x > 0) {
			return math.NaN()
		}
	}
	return stats.GeoMean(xs)
}

// PctStddevString formats the relative standard deviation of a
// measurement as "±N%". It returns "" when the spread is unknown and
// "?" when it can't be expressed relative to center.
func PctStddevString(center, stddev float64) string {
	if stddev == 0 || math.IsNaN(stddev) {
		return ""
	}
	if center == 0 || math.IsInf(stddev, 0) {
		return "?"
	}
	return fmt.Sprintf("±%.0f%%", 100*math.Abs(stddev/center))
}
