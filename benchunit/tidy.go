// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit manipulates the units found in profiler and
// benchmark reports and formats numbers in those units.
package benchunit

import (
	"math"
	"strings"
)

// timeExp maps the time unit spellings seen in perf stat and pyperf
// output to their power-of-ten exponent relative to seconds.
var timeExp = map[string]int{
	"ns": -9, "nsec": -9,
	"us": -6, "usec": -6, "µs": -6, "μs": -6,
	"ms": -3, "msec": -3,
	"s": 0, "sec": 0, "secs": 0, "second": 0, "seconds": 0,
}

// IsTime reports whether unit is a recognized unit of time.
func IsTime(unit string) bool {
	_, ok := timeExp[canonical(unit)]
	return ok
}

// Tidy normalizes a value with a (possibly pre-scaled) unit into base
// units. Time units such as "msec" or "us" are rescaled to "sec".
// It returns the re-scaled value and its new unit. If the value is
// already in base units, or its unit is not known, it does nothing.
func Tidy(value float64, unit string) (tidiedValue float64, tidiedUnit string) {
	exp, ok := timeExp[canonical(unit)]
	if !ok {
		return value, unit
	}
	return scale10(value, exp), "sec"
}

// Convert converts value from unit from to unit to. It reports false
// if either unit is unknown or the two measure different things. A
// value is always convertible to its own unit.
func Convert(value float64, from, to string) (float64, bool) {
	if from == to {
		return value, true
	}
	ef, ok := timeExp[canonical(from)]
	if !ok {
		return 0, false
	}
	et, ok := timeExp[canonical(to)]
	if !ok {
		return 0, false
	}
	return scale10(value, ef-et), true
}

// canonical folds the few case variants reports use for time units,
// such as "Sec" or "MS".
func canonical(unit string) string {
	if _, ok := timeExp[unit]; ok {
		return unit
	}
	return strings.ToLower(unit)
}

// scale10 returns value*10^exp. Negative exponents divide by a power
// of ten so that exact decimal results stay exact.
func scale10(value float64, exp int) float64 {
	if exp >= 0 {
		return value * math.Pow10(exp)
	}
	return value / math.Pow10(-exp)
}
