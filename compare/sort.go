// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compare

import (
	"fmt"
	"sort"
	"strings"
)

// An Order defines a sort order for a table.
// It reports whether t.Rows[i] should appear before t.Rows[j].
type Order func(t *Table, i, j int) bool

// ByName sorts tables by the metric name column.
func ByName(t *Table, i, j int) bool {
	return t.Rows[i].Name < t.Rows[j].Name
}

// ByDelta sorts tables by the delta column, from the largest
// regression to the largest improvement. Rows without a delta sort
// last.
func ByDelta(t *Table, i, j int) bool {
	ri, rj := t.Rows[i], t.Rows[j]
	if ri.HasDelta != rj.HasDelta {
		return ri.HasDelta
	}
	return ri.DeltaPct < rj.DeltaPct
}

// Reverse returns the reverse of the given order.
func Reverse(order Order) Order {
	return func(t *Table, i, j int) bool { return order(t, j, i) }
}

// Sort sorts a Table t (in place) by the given order. Rows that
// compare equal keep their join order.
func Sort(t *Table, order Order) {
	sort.SliceStable(t.Rows, func(i, j int) bool { return order(t, i, j) })
}

var orderNames = map[string]Order{
	"none":  nil,
	"name":  ByName,
	"delta": ByDelta,
}

// ParseOrder parses an order name: none, name or delta. A leading
// "-" reverses the order. The order "none" is nil.
func ParseOrder(s string) (Order, error) {
	name := strings.TrimPrefix(s, "-")
	order, ok := orderNames[name]
	if !ok {
		return nil, fmt.Errorf("unknown sort order %q (want [-]name, [-]delta or none)", s)
	}
	if order != nil && name != s {
		order = Reverse(order)
	}
	return order, nil
}
