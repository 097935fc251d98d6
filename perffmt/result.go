// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perffmt

import (
	"fmt"
	"strings"

	"github.com/perfharness/perfcmp/benchunit"
)

// parseResultLine parses line as a "name: statistic" benchmark result
// and fills in r.metric. Lines without a name and a colon yield
// errSkip. Named lines whose statistic doesn't parse are syntax
// errors.
func (r *Reader) parseResultLine(line string) *SyntaxError {
	name, stat, ok := strings.Cut(line, ":")
	if !ok {
		return errSkip
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errSkip
	}
	m := &r.metric
	m.Name = name

	// pyperf labels the statistic, as in
	// "deepcopy: Mean +- std dev: 665 us +- 4 us".
	stat = strings.TrimSpace(stat)
	if stat != "" && !startsNumber(stat) {
		if i := strings.LastIndexByte(stat, ':'); i >= 0 {
			stat = strings.TrimSpace(stat[i+1:])
		}
	}

	f := strings.Fields(stat)
	if len(f) != 2 && len(f) != 5 {
		return r.newSyntaxError(fmt.Sprintf("%s: expected \"<value> <unit> [+- <stddev> <unit>]\"", name))
	}
	val, err := parseNumber(f[0])
	if err != nil {
		return r.newSyntaxError(fmt.Sprintf("%s: parsing value: %v", name, err))
	}
	if startsNumber(f[1]) {
		return r.newSyntaxError(fmt.Sprintf("%s: missing unit", name))
	}
	m.Value, m.Unit = val, f[1]
	if len(f) == 2 {
		return nil
	}

	if f[2] != "+-" && f[2] != "±" {
		return r.newSyntaxError(fmt.Sprintf("%s: expected +- after unit, found %q", name, f[2]))
	}
	sd, err := parseNumber(f[3])
	if err != nil {
		return r.newSyntaxError(fmt.Sprintf("%s: parsing stddev: %v", name, err))
	}
	// pyperf scales the stddev independently of the mean, e.g.
	// "1.02 sec +- 15 ms".
	sd, ok = benchunit.Convert(sd, f[4], m.Unit)
	if !ok {
		return r.newSyntaxError(fmt.Sprintf("%s: stddev unit %q does not match %q", name, f[4], m.Unit))
	}
	m.Stddev = sd
	return nil
}

// startsNumber reports whether s begins like a number.
func startsNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' || s[0] == '.' {
		s = s[1:]
	}
	return s != "" && isDigit(s[0])
}
