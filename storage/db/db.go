// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db archives comparison tables in a SQL database.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/perfharness/perfcmp/compare"
)

// DB is a high-level interface to a database of comparisons.
// It's safe for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertComparison *sql.Stmt
	insertRow        *sql.Stmt
	insertLabel      *sql.Stmt
}

// ErrNotFound is returned by Comparison for an unknown ID.
var ErrNotFound = errors.New("comparison not found")

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Comparisons (
	ComparisonID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Kind VARCHAR(16) NOT NULL,
	BaselineFile VARCHAR(1024) NOT NULL,
	VariantFile VARCHAR(1024) NOT NULL,
	Created BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS ComparisonRows (
	ComparisonID BIGINT UNSIGNED,
	RowID BIGINT UNSIGNED,
	Name VARCHAR(255) NOT NULL,
	Unit VARCHAR(64) NOT NULL,
	BaselineValue DOUBLE,
	BaselineStddev DOUBLE,
	BaselineUnit VARCHAR(64),
	VariantValue DOUBLE,
	VariantStddev DOUBLE,
	VariantUnit VARCHAR(64),
	DeltaPct DOUBLE,
	InconsistentUnit BOOLEAN NOT NULL,
	PRIMARY KEY (ComparisonID, RowID),
	FOREIGN KEY (ComparisonID) REFERENCES Comparisons(ComparisonID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS ComparisonLabels (
	ComparisonID BIGINT UNSIGNED,
	Name VARCHAR(255),
	Value VARCHAR(8192),
	PRIMARY KEY (ComparisonID, Name),
{{if not .sqlite3}}
	Index (Name(100), Value(100)),
{{end}}
	FOREIGN KEY (ComparisonID) REFERENCES Comparisons(ComparisonID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS ComparisonLabelsNameValue ON ComparisonLabels(Name, Value);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertComparison, err = db.sql.Prepare("INSERT INTO Comparisons(Kind, BaselineFile, VariantFile, Created) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertRow, err = db.sql.Prepare(`INSERT INTO ComparisonRows(ComparisonID, RowID, Name, Unit,
	BaselineValue, BaselineStddev, BaselineUnit, VariantValue, VariantStddev, VariantUnit,
	DeltaPct, InconsistentUnit) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	db.insertLabel, err = db.sql.Prepare("INSERT INTO ComparisonLabels(ComparisonID, Name, Value) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// A Comparison is an archived comparison table.
type Comparison struct {
	// ID is assigned by InsertComparison.
	ID string

	// Kind is the report grammar, "stat" or "result".
	Kind string

	BaselineFile, VariantFile string

	// Created is assigned by InsertComparison, truncated to the
	// second.
	Created time.Time

	// Labels are arbitrary key/value pairs describing the
	// comparison, such as the workload or the commit.
	Labels map[string]string

	Rows []*compare.Row
}

// InsertComparison stores c in a single transaction and sets c.ID
// and c.Created.
func (db *DB) InsertComparison(ctx context.Context, c *Comparison) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	created := now().Truncate(time.Second)
	res, err := tx.StmtContext(ctx, db.insertComparison).ExecContext(ctx, c.Kind, c.BaselineFile, c.VariantFile, created.Unix())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	insertRow := tx.StmtContext(ctx, db.insertRow)
	for i, r := range c.Rows {
		if _, err := insertRow.ExecContext(ctx, id, i, r.Name, r.Unit,
			nullFloat(r.Baseline.Value, r.Baseline.Valid), nullFloat(r.Baseline.Stddev, r.Baseline.Valid), nullString(r.Baseline.Unit, r.Baseline.Valid),
			nullFloat(r.Variant.Value, r.Variant.Valid), nullFloat(r.Variant.Stddev, r.Variant.Valid), nullString(r.Variant.Unit, r.Variant.Valid),
			nullFloat(r.DeltaPct, r.HasDelta), r.InconsistentUnit); err != nil {
			return err
		}
	}

	insertLabel := tx.StmtContext(ctx, db.insertLabel)
	for _, k := range sortedKeys(c.Labels) {
		if _, err := insertLabel.ExecContext(ctx, id, k, c.Labels[k]); err != nil {
			return err
		}
	}

	c.ID = fmt.Sprint(id)
	c.Created = created
	return nil
}

func nullFloat(v float64, valid bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: valid}
}

func nullString(s string, valid bool) sql.NullString {
	return sql.NullString{String: s, Valid: valid}
}

func sortedKeys(m map[string]string) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseID converts a public comparison ID into its primary key.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid ID %q", ErrNotFound, id)
	}
	return n, nil
}

// Comparison returns the comparison with the given ID.
func (db *DB) Comparison(ctx context.Context, id string) (*Comparison, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c := &Comparison{ID: id, Labels: make(map[string]string)}
	var created int64
	err = db.sql.QueryRowContext(ctx, "SELECT Kind, BaselineFile, VariantFile, Created FROM Comparisons WHERE ComparisonID = ?", n).
		Scan(&c.Kind, &c.BaselineFile, &c.VariantFile, &created)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	} else if err != nil {
		return nil, err
	}
	c.Created = time.Unix(created, 0)

	rows, err := db.sql.QueryContext(ctx, `SELECT Name, Unit, BaselineValue, BaselineStddev, BaselineUnit,
	VariantValue, VariantStddev, VariantUnit, DeltaPct, InconsistentUnit
	FROM ComparisonRows WHERE ComparisonID = ? ORDER BY RowID`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r compare.Row
		var bv, bsd, vv, vsd, delta sql.NullFloat64
		var bu, vu sql.NullString
		if err := rows.Scan(&r.Name, &r.Unit, &bv, &bsd, &bu, &vv, &vsd, &vu, &delta, &r.InconsistentUnit); err != nil {
			return nil, err
		}
		r.Baseline = compare.Value{Value: bv.Float64, Stddev: bsd.Float64, Unit: bu.String, Valid: bv.Valid}
		r.Variant = compare.Value{Value: vv.Float64, Stddev: vsd.Float64, Unit: vu.String, Valid: vv.Valid}
		r.DeltaPct, r.HasDelta = delta.Float64, delta.Valid
		c.Rows = append(c.Rows, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	labels, err := db.sql.QueryContext(ctx, "SELECT Name, Value FROM ComparisonLabels WHERE ComparisonID = ?", n)
	if err != nil {
		return nil, err
	}
	defer labels.Close()
	for labels.Next() {
		var k, v string
		if err := labels.Scan(&k, &v); err != nil {
			return nil, err
		}
		c.Labels[k] = v
	}
	return c, labels.Err()
}

// FindComparisons returns the IDs of the comparisons carrying all of
// the given labels, oldest first. With no labels it returns every
// comparison.
func (db *DB) FindComparisons(ctx context.Context, labels map[string]string) ([]string, error) {
	q := "SELECT ComparisonID FROM Comparisons c"
	var args []interface{}
	for i, k := range sortedKeys(labels) {
		if i == 0 {
			q += " WHERE "
		} else {
			q += " AND "
		}
		q += "EXISTS (SELECT 1 FROM ComparisonLabels l WHERE l.ComparisonID = c.ComparisonID AND l.Name = ? AND l.Value = ?)"
		args = append(args, k, labels[k])
	}
	q += " ORDER BY ComparisonID"

	rows, err := db.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, fmt.Sprint(id))
	}
	return ids, rows.Err()
}

// DeleteComparison removes a comparison together with its rows and
// labels.
func (db *DB) DeleteComparison(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := db.sql.ExecContext(ctx, "DELETE FROM Comparisons WHERE ComparisonID = ?", n)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// CountComparisons returns the number of archived comparisons.
func (db *DB) CountComparisons(ctx context.Context) (int, error) {
	var count int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Comparisons").Scan(&count)
	return count, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertComparison, db.insertRow, db.insertLabel} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
