// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package archive

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/perfharness/perfcmp/compare"
	"github.com/perfharness/perfcmp/perffmt"
	"github.com/perfharness/perfcmp/storage/db/dbtest"
	"github.com/perfharness/perfcmp/storage/fs"
)

func table() *compare.Table {
	return &compare.Table{
		Kind:         perffmt.StatGrammar,
		BaselineFile: "base.txt",
		VariantFile:  "opt.txt",
		Rows: []*compare.Row{{
			Name:     "task-clock",
			Unit:     "msec",
			Baseline: compare.Value{Value: 200, Unit: "msec", Valid: true},
			Variant:  compare.Value{Value: 150, Unit: "msec", Valid: true},
			DeltaPct: 25, HasDelta: true,
		}},
	}
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	mem := fs.NewMemFS()
	a := &Archive{DB: dbtest.NewDB(t), FS: mem}

	status, err := a.Save(ctx, table(), map[string]string{"workload": "aes"},
		File{"baseline.txt", strings.NewReader("  200  task-clock (msec)\n")},
		File{"variant.txt", strings.NewReader("  150  task-clock (msec)\n")})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if status.ComparisonID != "1" {
		t.Errorf("ComparisonID = %q, want 1", status.ComparisonID)
	}
	wantIDs := []string{"1/baseline.txt", "1/variant.txt", "1/table.csv"}
	if !reflect.DeepEqual(status.FileIDs, wantIDs) {
		t.Errorf("FileIDs = %v, want %v", status.FileIDs, wantIDs)
	}

	want := []string{"comparisons/1/baseline.txt", "comparisons/1/table.csv", "comparisons/1/variant.txt"}
	if got := mem.Files(); !reflect.DeepEqual(got, want) {
		t.Errorf("Files() = %v, want %v", got, want)
	}
	content, meta, _ := mem.File("comparisons/1/table.csv")
	if string(content) != "name,unit,baseline_value,variant_value,delta_pct\ntask-clock,msec,200,150,25\n" {
		t.Errorf("table.csv = %q", content)
	}
	wantMeta := map[string]string{"comparisonid": "1", "fileid": "1/table.csv", "kind": "stat", "label-workload": "aes"}
	if !reflect.DeepEqual(meta, wantMeta) {
		t.Errorf("metadata = %v, want %v", meta, wantMeta)
	}

	c, err := a.DB.Comparison(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if c.Kind != "stat" || len(c.Rows) != 1 || c.Labels["workload"] != "aes" {
		t.Errorf("stored comparison = %+v", c)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestSaveAbort(t *testing.T) {
	ctx := context.Background()
	mem := fs.NewMemFS()
	a := &Archive{DB: dbtest.NewDB(t), FS: mem}

	_, err := a.Save(ctx, table(), nil,
		File{"baseline.txt", strings.NewReader("  200  task-clock (msec)\n")},
		File{"variant.txt", errReader{}})
	if err == nil {
		t.Fatal("Save succeeded")
	}
	n, err := a.DB.CountComparisons(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("%d comparisons left after failed Save, want 0", n)
	}
}

func TestSaveWithoutFS(t *testing.T) {
	a := &Archive{DB: dbtest.NewDB(t)}
	status, err := a.Save(context.Background(), table(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if status.ComparisonID == "" || len(status.FileIDs) != 0 {
		t.Errorf("status = %+v", status)
	}
}
