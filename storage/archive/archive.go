// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package archive saves comparisons. The rows of a comparison go to a
// database, and the raw reports together with the CSV table go to a
// filesystem.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/perfharness/perfcmp/compare"
	"github.com/perfharness/perfcmp/storage/db"
	"github.com/perfharness/perfcmp/storage/fs"
)

// An Archive stores comparisons. FS may be nil, in which case only
// the database rows are kept.
type Archive struct {
	DB *db.DB
	FS fs.FS
}

// A File is a file to store alongside a comparison.
type File struct {
	Name string // base name, such as "baseline.txt"
	Body io.Reader
}

// Status reports what Save stored.
type Status struct {
	// ComparisonID is the ID assigned to the comparison.
	ComparisonID string
	// FileIDs lists the stored files, in the order given.
	FileIDs []string
}

// Save stores t with the given labels, then stores the files and a
// CSV rendering of t under "comparisons/<id>/". If a file can't be
// stored, the comparison is removed again.
func (a *Archive) Save(ctx context.Context, t *compare.Table, labels map[string]string, files ...File) (*Status, error) {
	c := &db.Comparison{
		Kind:         t.Kind.String(),
		BaselineFile: t.BaselineFile,
		VariantFile:  t.VariantFile,
		Labels:       labels,
		Rows:         t.Rows,
	}
	if err := a.DB.InsertComparison(ctx, c); err != nil {
		return nil, err
	}
	status := &Status{ComparisonID: c.ID}
	if a.FS == nil {
		return status, nil
	}

	var table bytes.Buffer
	if err := compare.WriteCSV(&table, t); err != nil {
		a.DB.DeleteComparison(ctx, c.ID)
		return nil, err
	}
	files = append(files, File{"table.csv", &table})

	for _, f := range files {
		meta := fileMetadata(c, f.Name)
		fw, err := a.FS.NewWriter(ctx, "comparisons/"+meta["fileid"], meta)
		if err != nil {
			a.DB.DeleteComparison(ctx, c.ID)
			return nil, err
		}
		if _, err := io.Copy(fw, f.Body); err != nil {
			fw.CloseWithError(err)
			a.DB.DeleteComparison(ctx, c.ID)
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		if err := fw.Close(); err != nil {
			a.DB.DeleteComparison(ctx, c.ID)
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		status.FileIDs = append(status.FileIDs, meta["fileid"])
	}
	return status, nil
}

// fileMetadata returns the metadata stored with one file of c.
func fileMetadata(c *db.Comparison, name string) map[string]string {
	meta := map[string]string{
		"comparisonid": c.ID,
		"fileid":       fmt.Sprintf("%s/%s", c.ID, name),
		"kind":         c.Kind,
	}
	for k, v := range c.Labels {
		meta["label-"+k] = v
	}
	return meta
}
