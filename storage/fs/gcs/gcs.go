// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs implements the fs.FS interface using Google Cloud Storage.
package gcs

import (
	"context"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/perfharness/perfcmp/storage/fs"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// impl is an fs.FS backed by Google Cloud Storage.
type impl struct {
	bucket *storage.BucketHandle
}

// NewFS constructs an FS that writes to the provided bucket.
//
// If credentialsFile is empty, the client uses the application
// default credentials.
func NewFS(ctx context.Context, bucketName, credentialsFile string) (fs.FS, error) {
	opts, err := clientOptions(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &impl{client.Bucket(bucketName)}, nil
}

func clientOptions(ctx context.Context, credentialsFile string) ([]option.ClientOption, error) {
	if credentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}, nil
	}
	creds, err := google.FindDefaultCredentials(ctx, storage.ScopeReadWrite)
	if err != nil {
		return nil, err
	}
	ts := oauth2.ReuseTokenSource(nil, creds.TokenSource)
	return []option.ClientOption{option.WithTokenSource(ts)}, nil
}

func (f *impl) NewWriter(ctx context.Context, name string, metadata map[string]string) (fs.Writer, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := f.bucket.Object(name).NewWriter(ctx)
	w.Metadata = metadata
	w.ContentType = contentType(name)
	return &wrapper{w, cancel}, nil
}

func contentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".csv"):
		return "text/csv; charset=utf-8"
	case strings.HasSuffix(name, ".html"):
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// wrapper contains a *storage.Writer and implements CloseWithError.
type wrapper struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *wrapper) Close() error {
	defer w.cancel()
	return w.Writer.Close()
}

// CloseWithError aborts the upload. Canceling the writer's context
// discards the object instead of finalizing it.
func (w *wrapper) CloseWithError(err error) error {
	w.cancel()
	w.Writer.Close()
	return nil
}
