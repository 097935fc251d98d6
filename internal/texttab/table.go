// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can easily chain
// them to build up many cells at once.
type Table struct {
	rows [][]cell
	cols int
}

type cell struct {
	value     string
	margin    string
	alignment align
}

// A CellOption modifies a single cell.
type CellOption func(c *cell)

// LeftMargin sets the text printed before the cell. Cells other than
// the first in a row default to a single space.
func LeftMargin(x string) CellOption {
	return func(c *cell) {
		c.margin = x
	}
}

var (
	Left  CellOption = func(c *cell) { c.alignment = alignLeft }
	Right CellOption = func(c *cell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignRight
)

func (a align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if a == alignRight {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell adds a cell at the end of the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	r := &t.rows[len(t.rows)-1]
	c := cell{value: value}
	if len(*r) > 0 {
		c.margin = " "
	}
	for _, o := range opts {
		o(&c)
	}
	*r = append(*r, c)
	if len(*r) > t.cols {
		t.cols = len(*r)
	}
	return t
}

// Format lays out table t and writes it to w.
func (t *Table) Format(w io.Writer) error {
	// Column widths, including their left margins.
	margins := make([]int, t.cols)
	widths := make([]int, t.cols)
	for _, r := range t.rows {
		for i, c := range r {
			margins[i] = max(margins[i], utf8.RuneCountInString(c.margin))
			widths[i] = max(widths[i], utf8.RuneCountInString(c.value))
		}
	}

	var line strings.Builder
	for _, r := range t.rows {
		line.Reset()
		for i, c := range r {
			fmt.Fprintf(&line, "%*s", margins[i], c.margin)
			line.WriteString(c.alignment.pad(c.value, widths[i]))
		}
		// Don't print trailing spaces from short left-aligned
		// cells at the end of a row.
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
