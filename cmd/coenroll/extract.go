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

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorse-io/coenroll/common/log"
	"github.com/gorse-io/coenroll/common/progress"
	"github.com/gorse-io/coenroll/config"
	"github.com/gorse-io/coenroll/dataset"
	"github.com/gorse-io/coenroll/feature"
	"github.com/gorse-io/coenroll/storage/blob"
	"github.com/gorse-io/coenroll/storage/sink"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExtractCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "extract",
		Short: "Append coenrollment features to a term table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return errors.Trace(err)
			}
			if cmd.Flags().Changed("bins") {
				cfg.Features.Bins, _ = cmd.Flags().GetFloat64Slice("bins")
			}
			if cmd.Flags().Changed("jobs") {
				cfg.Features.Jobs, _ = cmd.Flags().GetInt("jobs")
			}
			if cmd.Flags().Changed("feature") {
				cfg.Columns.Feature, _ = cmd.Flags().GetString("feature")
			}
			if err = cfg.Validate(); err != nil {
				return errors.Trace(err)
			}
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			quiet, _ := cmd.Flags().GetBool("quiet")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			shutdown, err := setupTracing(cfg)
			if err != nil {
				return errors.Trace(err)
			}
			defer shutdown(context.Background())
			return runExtract(ctx, cfg, input, output, cmd.OutOrStdout(), !quiet)
		},
	}
	command.Flags().StringP("input", "i", "", "input table: CSV path or s3://, gs://, azblob:// URL")
	command.Flags().StringP("output", "o", "", "output target: CSV or Parquet path, object URL or database URL")
	command.Flags().Float64Slice("bins", feature.DefaultCuts, "bin cut points")
	command.Flags().Int("jobs", 0, "number of workers (0 means one per CPU)")
	command.Flags().String("feature", "", "feature column")
	command.Flags().BoolP("quiet", "q", false, "hide progress and summary")
	_ = command.MarkFlagRequired("input")
	_ = command.MarkFlagRequired("output")
	return command
}

func runExtract(ctx context.Context, cfg *config.Config, input, output string, stdout io.Writer, verbose bool) error {
	runId := uuid.New().String()
	logger := log.WithRun(runId)
	startTime := time.Now()

	var table *dataset.Table
	err := blob.ReadFile(ctx, input, cfg.Storage, func(r io.Reader) (err error) {
		table, err = dataset.ReadCSV(r)
		return err
	})
	if err != nil {
		return errors.Trace(err)
	}
	logger.Info("load input",
		zap.String("input", input),
		zap.Int("n_records", table.Len()),
		zap.Int("n_columns", len(table.Columns())))

	extractor, err := feature.NewExtractor(cfg, nil)
	if err != nil {
		return errors.Trace(err)
	}
	var bars *progressBars
	if verbose {
		bars = newProgressBars()
		ctx, _ = progress.NewTracer(runId, bars.update).Start(ctx, "extract", 1)
	}
	frame, err := extractor.Extract(ctx, table)
	if bars != nil {
		bars.finish()
	}
	if err != nil {
		return errors.Trace(err)
	}
	if err = sink.Write(ctx, output, frame, cfg); err != nil {
		return errors.Trace(err)
	}
	logger.Info("extract coenrollment features",
		zap.String("output", log.RedactDBURL(output)),
		zap.Int("n_features", len(frame.Columns())),
		zap.Duration("time_used", time.Since(startTime)))
	if verbose {
		return errors.Trace(printSummary(stdout, frame))
	}
	return nil
}

// progressBars draws one bar per aggregation span.
type progressBars struct {
	mu   sync.Mutex
	bars map[string]*progressbar.ProgressBar
}

func newProgressBars() *progressBars {
	return &progressBars{bars: make(map[string]*progressbar.ProgressBar)}
}

func (p *progressBars) update(status progress.Progress) {
	if status.Name == "extract" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	bar, exist := p.bars[status.Name]
	if !exist {
		bar = progressbar.NewOptions(status.Total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(status.Name),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond))
		p.bars[status.Name] = bar
	}
	// notifications from concurrent workers may arrive out of order
	if int64(status.Count) > bar.State().CurrentNum {
		_ = bar.Set(status.Count)
	}
}

func (p *progressBars) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, bar := range p.bars {
		_ = bar.Finish()
	}
}
