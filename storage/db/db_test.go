// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/perfharness/perfcmp/compare"
	. "github.com/perfharness/perfcmp/storage/db"
	"github.com/perfharness/perfcmp/storage/db/dbtest"
)

func sampleComparison() *Comparison {
	return &Comparison{
		Kind:         "result",
		BaselineFile: "deepcopy-base.txt",
		VariantFile:  "deepcopy-opt.txt",
		Labels:       map[string]string{"workload": "deepcopy", "commit": "abc123"},
		Rows: []*compare.Row{
			{
				Name:     "deepcopy",
				Unit:     "us",
				Baseline: compare.Value{Value: 665, Stddev: 4, Unit: "us", Valid: true},
				Variant:  compare.Value{Value: 0.51, Stddev: 0.01, Unit: "ms", Valid: true},
				DeltaPct: 99.92330827067669, HasDelta: true, InconsistentUnit: true,
			},
			{
				Name:     "deepcopy_reduce",
				Unit:     "us",
				Baseline: compare.Value{Value: 5.45, Stddev: 1.2, Unit: "us", Valid: true},
			},
			{
				Name:    "aes_ctr",
				Unit:    "ms",
				Variant: compare.Value{Value: 112, Stddev: 2, Unit: "ms", Valid: true},
			},
			{
				Name:     "zero",
				Baseline: compare.Value{Valid: true},
				Variant:  compare.Value{Value: 3, Valid: true},
			},
		},
	}
}

func TestInsertComparison(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDB(t)

	SetNow(time.Unix(1700000000, 0))
	defer SetNow(time.Time{})

	c := sampleComparison()
	if err := db.InsertComparison(ctx, c); err != nil {
		t.Fatalf("InsertComparison: %v", err)
	}
	if c.ID == "" {
		t.Fatal("InsertComparison did not assign an ID")
	}
	if !c.Created.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("Created = %v", c.Created)
	}

	got, err := db.Comparison(ctx, c.ID)
	if err != nil {
		t.Fatalf("Comparison(%s): %v", c.ID, err)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("Comparison mismatch (-want +got):\n%s", diff)
	}

	n, err := db.CountComparisons(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("CountComparisons = %d, want 1", n)
	}
}

// TestComparisonIDs verifies that InsertComparison generates
// sequential IDs.
func TestComparisonIDs(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDB(t)

	for _, want := range []string{"1", "2", "3"} {
		c := &Comparison{Kind: "stat"}
		if err := db.InsertComparison(ctx, c); err != nil {
			t.Fatalf("InsertComparison: %v", err)
		}
		if c.ID != want {
			t.Fatalf("c.ID = %q, want %q", c.ID, want)
		}
	}
}

func TestFindComparisons(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDB(t)

	for _, labels := range []map[string]string{
		{"workload": "aes", "commit": "1"},
		{"workload": "deepcopy", "commit": "1"},
		{"workload": "aes", "commit": "2"},
		nil,
	} {
		if err := db.InsertComparison(ctx, &Comparison{Kind: "stat", Labels: labels}); err != nil {
			t.Fatal(err)
		}
	}

	for _, test := range []struct {
		labels map[string]string
		want   []string
	}{
		{nil, []string{"1", "2", "3", "4"}},
		{map[string]string{"workload": "aes"}, []string{"1", "3"}},
		{map[string]string{"workload": "aes", "commit": "2"}, []string{"3"}},
		{map[string]string{"commit": "1"}, []string{"1", "2"}},
		{map[string]string{"workload": "sha"}, nil},
	} {
		got, err := db.FindComparisons(ctx, test.labels)
		if err != nil {
			t.Fatalf("FindComparisons(%v): %v", test.labels, err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("FindComparisons(%v) mismatch (-want +got):\n%s", test.labels, diff)
		}
	}
}

func TestDeleteComparison(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDB(t)

	c := sampleComparison()
	if err := db.InsertComparison(ctx, c); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteComparison(ctx, c.ID); err != nil {
		t.Fatalf("DeleteComparison: %v", err)
	}

	// Rows and labels go with the comparison.
	for _, table := range []string{"Comparisons", "ComparisonRows", "ComparisonLabels"} {
		var n int
		if err := DBSQL(db).QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Errorf("%s has %d rows after delete, want 0", table, n)
		}
	}

	if err := db.DeleteComparison(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteComparison: got %v, want ErrNotFound", err)
	}
}

func TestComparisonNotFound(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDB(t)

	for _, id := range []string{"1", "abc", ""} {
		if _, err := db.Comparison(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Comparison(%q): got %v, want ErrNotFound", id, err)
		}
	}
}
