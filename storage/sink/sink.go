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

package sink

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorse-io/coenroll/common/log"
	"github.com/gorse-io/coenroll/config"
	"github.com/gorse-io/coenroll/dataset"
	"github.com/gorse-io/coenroll/storage"
	"github.com/gorse-io/coenroll/storage/blob"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Write stores rows at a target. Database URLs get a table, targets ending in .parquet
// get a Parquet file and everything else gets a CSV file, locally or in an object store.
func Write(ctx context.Context, target string, rows dataset.Rows, cfg *config.Config) error {
	startTime := time.Now()
	var err error
	switch {
	case storage.IsDatabase(target):
		err = WriteSQL(ctx, target, cfg.Output.Table, rows)
	case strings.EqualFold(filepath.Ext(target), ".parquet"):
		err = writeParquetTo(ctx, target, rows, cfg)
	default:
		err = blob.WriteFile(ctx, target, cfg.Storage, func(w io.Writer) error {
			return WriteCSV(w, rows)
		})
	}
	if err != nil {
		return errors.Annotatef(err, "failed to write %s", log.RedactDBURL(target))
	}
	log.Logger().Info("write output",
		zap.String("target", log.RedactDBURL(target)),
		zap.Int("n_rows", rows.Len()),
		zap.Int("n_columns", len(rows.Fields())),
		zap.Duration("time_used", time.Since(startTime)))
	return nil
}

// writeParquetTo writes a local Parquet file directly. Object store targets are staged
// in a temporary file and uploaded.
func writeParquetTo(ctx context.Context, target string, rows dataset.Rows, cfg *config.Config) error {
	if !storage.IsObjectStore(target) {
		return WriteParquet(target, rows, cfg.Output.ParquetJobs)
	}
	dir, err := os.MkdirTemp("", "coenroll-*")
	if err != nil {
		return errors.Trace(err)
	}
	defer os.RemoveAll(dir)
	staged := filepath.Join(dir, "features.parquet")
	if err = WriteParquet(staged, rows, cfg.Output.ParquetJobs); err != nil {
		return errors.Trace(err)
	}
	return blob.WriteFile(ctx, target, cfg.Storage, func(w io.Writer) error {
		file, err := os.Open(staged)
		if err != nil {
			return errors.Trace(err)
		}
		defer file.Close()
		_, err = io.Copy(w, file)
		return errors.Trace(err)
	})
}
