// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perffmt

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrInputNotFound reports a report path that could not be
	// opened or read.
	ErrInputNotFound = errors.New("input not found")

	// ErrEmptyInput reports a readable report that yielded no
	// metrics at all. This usually means the profiler crashed or
	// the wrong grammar was selected.
	ErrEmptyInput = errors.New("no recognized records")
)

// ReadFile reads the report at path with grammar g and collects its
// metrics into a Set, resolving duplicate names with dup.
//
// If the file can't be opened or read, the error wraps
// ErrInputNotFound. If the file holds no metrics, ReadFile returns
// the (empty) Set along with an error wrapping ErrEmptyInput, so the
// caller can still report the skipped lines.
func ReadFile(path string, g Grammar, src Source, dup DupPolicy) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputNotFound, err)
	}
	defer f.Close()
	if fi, err := f.Stat(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputNotFound, err)
	} else if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInputNotFound, path)
	}

	set, err := Collect(NewReader(f, path, g, src), dup)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputNotFound, err)
	}
	if len(set.Metrics) == 0 {
		return set, fmt.Errorf("%s: %w", path, ErrEmptyInput)
	}
	return set, nil
}
