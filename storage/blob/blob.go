// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package blob

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/gorse-io/coenroll/config"
	"github.com/gorse-io/coenroll/storage"
	"github.com/juju/errors"
)

// Store reads and writes named objects. Writes are committed when the writer is closed;
// Close reports upload failures.
type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Create(ctx context.Context, name string) (io.WriteCloser, error)
}

// Open resolves a target to a store and the object name inside it. Object store URLs
// look like s3://bucket/key, gs://bucket/key or azblob://container/key. Anything else is
// a local path.
func Open(ctx context.Context, target string, cfg config.StorageConfig) (Store, string, error) {
	switch {
	case strings.HasPrefix(target, storage.S3Prefix):
		bucket, key, err := storage.SplitBucket(target, storage.S3Prefix)
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		store, err := NewS3(cfg.S3, bucket, "")
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		return store, key, nil
	case strings.HasPrefix(target, storage.GCSPrefix):
		bucket, key, err := storage.SplitBucket(target, storage.GCSPrefix)
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		store, err := NewGCS(ctx, cfg.GCS, bucket, "")
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		return store, key, nil
	case strings.HasPrefix(target, storage.AzureBlobPrefix):
		container, key, err := storage.SplitBucket(target, storage.AzureBlobPrefix)
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		store, err := NewAzureBlob(cfg.Azure, container, "")
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		return store, key, nil
	case strings.Contains(target, "://"):
		return nil, "", errors.NotSupportedf("storage %q", target)
	default:
		return NewPOSIX(filepath.Dir(target)), filepath.Base(target), nil
	}
}

// ReadFile opens a target and hands its content to read.
func ReadFile(ctx context.Context, target string, cfg config.StorageConfig, read func(io.Reader) error) error {
	store, name, err := Open(ctx, target, cfg)
	if err != nil {
		return errors.Trace(err)
	}
	r, err := store.Open(ctx, name)
	if err != nil {
		return errors.Annotatef(err, "failed to open %s", target)
	}
	defer r.Close()
	return errors.Trace(read(r))
}

// WriteFile creates a target and lets write fill it. The object is committed only if
// write succeeds.
func WriteFile(ctx context.Context, target string, cfg config.StorageConfig, write func(io.Writer) error) error {
	store, name, err := Open(ctx, target, cfg)
	if err != nil {
		return errors.Trace(err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w, err := store.Create(ctx, name)
	if err != nil {
		return errors.Annotatef(err, "failed to create %s", target)
	}
	if err = write(w); err != nil {
		if aborter, ok := w.(interface{ CloseWithError(error) error }); ok {
			_ = aborter.CloseWithError(err)
		}
		cancel()
		_ = w.Close()
		return errors.Trace(err)
	}
	return errors.Annotatef(w.Close(), "failed to write %s", target)
}

// pipeWriter streams writes into an upload running on another goroutine.
type pipeWriter struct {
	*io.PipeWriter
	done chan error
}

func newPipeWriter(upload func(r io.Reader) error) *pipeWriter {
	pr, pw := io.Pipe()
	w := &pipeWriter{PipeWriter: pw, done: make(chan error, 1)}
	go func() {
		err := upload(pr)
		_ = pr.CloseWithError(err)
		w.done <- err
	}()
	return w
}

func (w *pipeWriter) Close() error {
	if err := w.PipeWriter.Close(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(<-w.done)
}
