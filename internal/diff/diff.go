// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff compares golden test output.
package diff

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Diff returns a human-readable description of the differences
// between want and got, or "" if they are equal. If the "diff" command
// is available, it returns the output of a unified diff from want to
// got.
func Diff(want, got []byte) string {
	if bytes.Equal(want, got) {
		return ""
	}
	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return fmt.Sprintf("want:\n%sgot:\n%s", want, got)
	}

	d, err := os.MkdirTemp("", "perfcmp-diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(d)
	if err := os.WriteFile(filepath.Join(d, "want"), want, 0666); err != nil {
		return err.Error()
	}
	if err := os.WriteFile(filepath.Join(d, "got"), got, 0666); err != nil {
		return err.Error()
	}

	c := exec.Command(cmd, "-Nu", "want", "got")
	c.Dir = d
	data, err := c.CombinedOutput()
	if len(data) > 0 {
		// diff exits with a non-zero status when the files don't match.
		// Ignore that failure as long as we get output.
		return string(data)
	}
	if err != nil {
		return err.Error()
	}
	// Most likely the difference is invisible to diff, so print
	// both so there is something.
	return fmt.Sprintf("want:\n%sgot:\n%s", want, got)
}
