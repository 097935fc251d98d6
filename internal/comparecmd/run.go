// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package comparecmd implements the command line shared by
// stat-compare and result-compare.
package comparecmd

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/perfharness/perfcmp/benchunit"
	"github.com/perfharness/perfcmp/compare"
	"github.com/perfharness/perfcmp/perffmt"
)

// Exit codes.
const (
	ExitOK            = 0
	ExitUsage         = 1
	ExitInputNotFound = 2
	ExitEmptyInput    = 3
	ExitFailure       = 4
)

var formats = map[string]func(io.Writer, *compare.Table) error{
	"csv":  compare.WriteCSV,
	"text": compare.FormatText,
	"html": compare.FormatHTML,
}

// Run runs the command called name with the given arguments (not
// including the command name) and returns its exit code. Both reports
// are read with grammar g.
//
// Flags may appear anywhere among the arguments.
func Run(name string, g perffmt.Grammar, args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, name+": ", 0)

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		flagVerbose = fs.Bool("v", false, "list skipped lines and print a summary")
		flagFormat  = fs.String("format", "csv", "output `format`: csv, text or html")
		flagSort    = fs.String("sort", "none", "sort by `order`: [-]delta, [-]name, none")
		flagDup     = fs.String("dup", "last", "resolve repeated metric names by `policy`: last or mean")
		flagOutput  string
		flagUnit    string
	)
	fs.StringVar(&flagOutput, "o", "", "write the table to `file` (- for standard output)")
	fs.StringVar(&flagOutput, "output", "", "alias for -o")
	if g == perffmt.ResultGrammar {
		fs.StringVar(&flagUnit, "unit", "", "convert time values to `unit` (ns, us, ms or sec)")
	}
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [options] <baseline-file> <variant-file> -o <output-file>\n", name)
		fmt.Fprintf(stderr, "options:\n")
		fs.PrintDefaults()
	}

	var files []string
	for {
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		files = append(files, args[0])
		args = args[1:]
	}

	usage := func(format string, a ...interface{}) int {
		logger.Printf(format, a...)
		fs.Usage()
		return ExitUsage
	}
	if len(files) != 2 {
		return usage("expected a baseline and a variant file, got %d files", len(files))
	}
	if flagOutput == "" {
		return usage("missing -o")
	}
	format, ok := formats[*flagFormat]
	if !ok {
		return usage("unknown format %q", *flagFormat)
	}
	order, err := compare.ParseOrder(*flagSort)
	if err != nil {
		return usage("%v", err)
	}
	dup, err := perffmt.ParseDupPolicy(*flagDup)
	if err != nil {
		return usage("%v", err)
	}
	if flagUnit != "" && !benchunit.IsTime(flagUnit) {
		return usage("unknown time unit %q", flagUnit)
	}

	t, err := compare.Compare(files[0], files[1], compare.Options{
		Grammar: g,
		Dup:     dup,
		Unit:    flagUnit,
		Order:   order,
	})
	if t != nil && len(t.Skipped) > 0 {
		if *flagVerbose {
			for _, se := range t.Skipped {
				logger.Print(se)
			}
		}
		logger.Printf("skipped %d unparseable lines", len(t.Skipped))
	}
	switch {
	case errors.Is(err, perffmt.ErrInputNotFound):
		logger.Print(err)
		return ExitInputNotFound
	case errors.Is(err, perffmt.ErrEmptyInput):
		logger.Print(err)
		return ExitEmptyInput
	case err != nil:
		logger.Print(err)
		return ExitFailure
	}

	var buf bytes.Buffer
	if err := format(&buf, t); err != nil {
		logger.Print(err)
		return ExitFailure
	}
	if flagOutput == "-" {
		_, err = stdout.Write(buf.Bytes())
	} else {
		err = writeFile(flagOutput, buf.Bytes())
	}
	if err != nil {
		logger.Print(err)
		return ExitFailure
	}

	if *flagVerbose {
		logger.Printf("%d rows: %s", len(t.Rows), compare.Summarize(t))
	}
	return ExitOK
}

// writeFile writes data to path atomically. The data goes to a
// temporary file in the same directory that is renamed over path once
// complete, so path is never left truncated.
func writeFile(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Chmod(0644); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
