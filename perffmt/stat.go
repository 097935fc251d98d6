// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perffmt

import (
	"math"
	"strings"
	"unicode"
)

// statUnits are the words perf prints between a counter value and its
// name, as in "200.74 msec task-clock".
var statUnits = map[string]bool{
	"ns": true, "nsec": true,
	"us": true, "usec": true, "µs": true, "μs": true,
	"ms": true, "msec": true,
	"s": true, "sec": true, "secs": true, "second": true, "seconds": true,
	"Hz": true, "KHz": true, "MHz": true, "GHz": true,
	"B": true, "KB": true, "MB": true, "GB": true,
	"KiB": true, "MiB": true, "GiB": true,
	"J": true, "Joules": true, "W": true, "Watts": true,
	"%": true, "CPUs": true,
	"/sec": true, "K/sec": true, "M/sec": true, "G/sec": true,
}

// parseStatLine parses line as a perf stat counter line and fills in
// r.metric. Lines that don't start with a number aren't counter lines
// and yield errSkip.
func (r *Reader) parseStatLine(line string) *SyntaxError {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	if line == "" || !isDigit(line[0]) {
		return errSkip
	}
	m := &r.metric

	f, rest := splitField(line)
	val, err := parseNumber(f)
	if err != nil {
		return r.newSyntaxError("parsing value: " + err.Error())
	}
	m.Value = val

	// "perf stat -r" prints the elapsed time as "mean +- stddev".
	if f, after := splitField(rest); f == "+-" || f == "±" {
		f, after = splitField(after)
		sd, err := parseNumber(f)
		if err != nil {
			return r.newSyntaxError("parsing stddev: " + err.Error())
		}
		m.Stddev = sd
		rest = after
	}

	// Everything after '#' is perf's derived-metric comment. It
	// still carries the run variance and multiplexing annotations,
	// but never the unit.
	var comment string
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest, comment = rest[:i], rest[i+1:]
	}
	rest, groups := cutGroups(rest)
	_, commentGroups := cutGroups(comment)

	relStddev := math.NaN()
	for i, g := range append(groups, commentGroups...) {
		switch {
		case strings.HasPrefix(g, "+-") || strings.HasPrefix(g, "±"):
			g = strings.TrimLeft(g, "+-±")
			if pct, ok := parsePercent(g); ok && math.IsNaN(relStddev) {
				relStddev = pct
			}
		case isPercent(g):
			// Multiplexing ratio, e.g. "(29.67%)".
		case i < len(groups) && m.Unit == "":
			m.Unit = g
		}
	}

	words := strings.Fields(rest)
	if m.Unit == "" && len(words) >= 2 && statUnits[words[0]] {
		m.Unit, words = words[0], words[1:]
	}
	if len(words) == 0 {
		return r.newSyntaxError("missing metric name")
	}
	m.Name = strings.Join(words, " ")

	if m.Stddev == 0 && !math.IsNaN(relStddev) {
		m.Stddev = math.Abs(m.Value) * relStddev / 100
	}
	return nil
}

// cutGroups removes the parenthesized groups from s. It returns what
// remains of s and the trimmed contents of each group in order. An
// unterminated group is left in place.
func cutGroups(s string) (rest string, groups []string) {
	var b strings.Builder
	for {
		open := strings.IndexByte(s, '(')
		if open < 0 {
			break
		}
		depth, end := 0, -1
		for i := open; i < len(s) && end < 0; i++ {
			switch s[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = i
				}
			}
		}
		if end < 0 {
			break
		}
		b.WriteString(s[:open])
		b.WriteByte(' ')
		groups = append(groups, strings.TrimSpace(s[open+1:end]))
		s = s[end+1:]
	}
	if b.Len() == 0 {
		return s, groups
	}
	b.WriteString(s)
	return b.String(), groups
}

// parsePercent parses "0.16%" and returns 0.16.
func parsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	val, err := parseNumber(strings.TrimSpace(strings.TrimSuffix(s, "%")))
	if err != nil {
		return 0, false
	}
	return val, true
}

// isPercent reports whether s is a bare percentage like "29.67%".
func isPercent(s string) bool {
	_, ok := parsePercent(s)
	return ok
}
