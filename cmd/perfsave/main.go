// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Perfsave compares two reports and archives the comparison.
//
// Usage:
//
//	perfsave [options] -kind stat|result baseline.txt variant.txt
//
// Perfsave reads the two reports like stat-compare or result-compare,
// stores the joined rows in a database and, if -bucket or -dir is
// given, stores both raw reports and the CSV table next to them under
// comparisons/<id>/. It prints the ID of the new comparison.
//
// The database is a sqlite3 file by default. With -driver mysql the
// -dsn is a go-sql-driver/mysql DSN; a Cloud SQL instance can be
// reached with the cloudsql network, as in
//
//	root:@cloudsql(project:region:instance)/perfcmp
//
// The -bucket option stores files in a Google Cloud Storage bucket
// using the application default credentials, or the service account
// key given by -credentials.
//
// Each -label key=value option attaches a label to the comparison.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"github.com/go-sql-driver/mysql"
	"github.com/perfharness/perfcmp/compare"
	"github.com/perfharness/perfcmp/internal/comparecmd"
	"github.com/perfharness/perfcmp/perffmt"
	"github.com/perfharness/perfcmp/storage/archive"
	"github.com/perfharness/perfcmp/storage/db"
	_ "github.com/perfharness/perfcmp/storage/db/sqlite3"
	"github.com/perfharness/perfcmp/storage/fs"
	"github.com/perfharness/perfcmp/storage/fs/gcs"
)

func main() {
	os.Exit(perfsave(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// labelFlag collects repeated -label key=value options.
type labelFlag map[string]string

func (l labelFlag) String() string {
	var parts []string
	for k, v := range l {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (l labelFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("want key=value, got %q", s)
	}
	l[k] = v
	return nil
}

func perfsave(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "perfsave: ", 0)

	flags := flag.NewFlagSet("perfsave", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		flagDriver      = flags.String("driver", "sqlite3", "database `driver`: sqlite3 or mysql")
		flagDSN         = flags.String("dsn", "perfcmp.db", "database `dsn`")
		flagBucket      = flags.String("bucket", "", "store files in the Cloud Storage `bucket`")
		flagDir         = flags.String("dir", "", "store files under `directory`")
		flagCredentials = flags.String("credentials", "", "service account key `file` for -bucket")
		flagKind        = flags.String("kind", "", "report `kind`: stat or result")
		flagDup         = flags.String("dup", "last", "resolve repeated metric names by `policy`: last or mean")
		flagUnit        = flags.String("unit", "", "convert time values to `unit` (result reports)")
		flagVerbose     = flags.Bool("v", false, "print verbose log messages")
		labels          = make(labelFlag)
	)
	flags.Var(labels, "label", "attach `key=value` to the comparison (repeatable)")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: perfsave [options] -kind stat|result <baseline-file> <variant-file>\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return comparecmd.ExitUsage
	}
	usage := func(format string, a ...interface{}) int {
		logger.Printf(format, a...)
		flags.Usage()
		return comparecmd.ExitUsage
	}

	var g perffmt.Grammar
	switch *flagKind {
	case "stat":
		g = perffmt.StatGrammar
	case "result":
		g = perffmt.ResultGrammar
	default:
		return usage("-kind must be stat or result")
	}
	if flags.NArg() != 2 {
		return usage("expected a baseline and a variant file")
	}
	if *flagBucket != "" && *flagDir != "" {
		return usage("-bucket and -dir are mutually exclusive")
	}
	switch *flagDriver {
	case "sqlite3":
	case "mysql":
		if _, err := mysql.ParseDSN(*flagDSN); err != nil {
			return usage("invalid -dsn: %v", err)
		}
	default:
		return usage("unknown -driver %q", *flagDriver)
	}
	dup, err := perffmt.ParseDupPolicy(*flagDup)
	if err != nil {
		return usage("%v", err)
	}

	baseline, variant := flags.Arg(0), flags.Arg(1)
	t, err := compare.Compare(baseline, variant, compare.Options{Grammar: g, Dup: dup, Unit: *flagUnit})
	switch {
	case errors.Is(err, perffmt.ErrInputNotFound):
		logger.Print(err)
		return comparecmd.ExitInputNotFound
	case errors.Is(err, perffmt.ErrEmptyInput):
		logger.Print(err)
		return comparecmd.ExitEmptyInput
	case err != nil:
		logger.Print(err)
		return comparecmd.ExitUsage
	}
	if *flagVerbose && len(t.Skipped) > 0 {
		logger.Printf("skipped %d unparseable lines", len(t.Skipped))
	}

	d, err := db.OpenSQL(*flagDriver, *flagDSN)
	if err != nil {
		logger.Printf("open database: %v", err)
		return comparecmd.ExitFailure
	}
	defer d.Close()

	a := &archive.Archive{DB: d}
	switch {
	case *flagBucket != "":
		a.FS, err = gcs.NewFS(ctx, *flagBucket, *flagCredentials)
		if err != nil {
			logger.Print(err)
			return comparecmd.ExitFailure
		}
	case *flagDir != "":
		a.FS = fs.DirFS(*flagDir)
	}

	var files []archive.File
	if a.FS != nil {
		for _, f := range []struct{ name, path string }{{"baseline", baseline}, {"variant", variant}} {
			data, err := os.ReadFile(f.path)
			if err != nil {
				logger.Print(err)
				return comparecmd.ExitInputNotFound
			}
			files = append(files, archive.File{Name: f.name + filepath.Ext(f.path), Body: bytes.NewReader(data)})
		}
	}

	status, err := a.Save(ctx, t, labels, files...)
	if err != nil {
		logger.Print(err)
		return comparecmd.ExitFailure
	}
	if *flagVerbose {
		logger.Printf("stored %d rows and %d files", len(t.Rows), len(status.FileIDs))
	}
	fmt.Fprintln(stdout, status.ComparisonID)
	return comparecmd.ExitOK
}
