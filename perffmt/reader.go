// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perffmt

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Grammar selects the line format a Reader scrapes.
type Grammar int

const (
	// StatGrammar reads "perf stat" style counter reports, where a
	// counter line starts with its value:
	//
	//	200.74 msec task-clock   #  0.978 CPUs utilized  ( +-  0.16% )
	//	1,234.5  some-metric (msec) # comment
	StatGrammar Grammar = iota

	// ResultGrammar reads benchmark suite result dumps, where a
	// result line is a name followed by a colon and a statistic:
	//
	//	deepcopy: Mean +- std dev: 665 us +- 4 us
	//	warmup: 1.0 sec
	ResultGrammar
)

func (g Grammar) String() string {
	switch g {
	case StatGrammar:
		return "stat"
	case ResultGrammar:
		return "result"
	}
	return fmt.Sprintf("Grammar(%d)", int(g))
}

// A Reader reads metrics from a profiler or benchmark report.
//
// Its API is modeled on bufio.Scanner. A Reader retains ownership of
// the Metric it returns; a caller should clone anything it needs to
// retain.
type Reader struct {
	s   *bufio.Scanner
	err error // current I/O error

	grammar  Grammar
	source   Source
	fileName string
	line     int

	metric Metric
	rec    Record
}

var noResult = &SyntaxError{"", 0, "Reader.Scan has not been called"}
var errSkip = &SyntaxError{"", 0, "skip line"}

// maxLine bounds the length of a single report line.
const maxLine = 1 << 20

// NewReader constructs a reader that scrapes r using grammar g and
// tags every metric with src. fileName is used in positions and error
// messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string, g Grammar, src Source) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName, g, src)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string, g Grammar, src Source) {
	r.s = bufio.NewScanner(ior)
	r.s.Buffer(nil, maxLine)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.err = nil
	r.grammar = g
	r.source = src
	r.fileName = fileName
	r.line = 0
	r.rec = nil
}

// newSyntaxError returns a *SyntaxError at the Reader's current position.
func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, msg}
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Result method to get the
// record. If Scan reaches EOF or an I/O error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		line := strings.TrimRight(r.s.Text(), "\r")
		r.metric = Metric{Source: r.source, fileName: r.fileName, line: r.line}
		var err *SyntaxError
		switch r.grammar {
		case StatGrammar:
			err = r.parseStatLine(line)
		case ResultGrammar:
			err = r.parseResultLine(line)
		default:
			panic(fmt.Sprintf("bad Grammar %v", r.grammar))
		}
		switch err {
		case nil:
			r.rec = &r.metric
			return true
		case errSkip:
			continue
		}
		r.rec = err
		return true
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line+1, err)
	}
	return false
}

// Result returns the record that was just read by Scan. This is
// either a *Metric or a *SyntaxError indicating a line that was
// skipped.
//
// Syntax errors are non-fatal, so the caller can continue to call
// Scan.
//
// If this returns a *Metric, the caller should not retain it, as it
// will be overwritten by the next call to Scan.
func (r *Reader) Result() Record {
	if r.rec == nil {
		return noResult
	}
	return r.rec
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

// Parsing helpers shared by both grammars.

// parseNumber parses a locale-formatted decimal number. Grouping
// separators are removed before parsing. Non-finite results are
// rejected.
func parseNumber(tok string) (float64, error) {
	if strings.ContainsAny(tok, ",'") {
		tok = strings.NewReplacer(",", "", "'", "").Replace(tok)
	}
	if tok == "" {
		return 0, fmt.Errorf("empty number")
	}
	val, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok {
			return 0, fmt.Errorf("%q: %w", tok, ne.Err)
		}
		return 0, err
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, fmt.Errorf("%q: not a finite number", tok)
	}
	return val, nil
}

// isDigit reports whether c is an ASCII digit.
func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// splitField consumes and returns non-whitespace in x as field,
// consumes whitespace following the field, and then returns the
// remaining text of x.
func splitField(x string) (field, rest string) {
	i := strings.IndexFunc(x, unicode.IsSpace)
	if i < 0 {
		return x, ""
	}
	field = x[:i]
	_, n := utf8.DecodeRuneInString(x[i:])
	rest = strings.TrimLeftFunc(x[i+n:], unicode.IsSpace)
	return
}
