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
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorse-io/coenroll/common/log"
	"github.com/gorse-io/coenroll/config"
	"github.com/gorse-io/coenroll/dataset"
	"github.com/gorse-io/coenroll/storage"
	"github.com/gorse-io/coenroll/storage/blob"
	"github.com/gorse-io/coenroll/storage/sink"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type subsetInputs struct {
	Student           string
	StudentTerm       string
	StudentTermCourse string
}

func newSubsetCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "subset",
		Short: "Extract and merge the records of one term",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return errors.Trace(err)
			}
			if cmd.Flags().Changed("filter") {
				cfg.Subset.Filter, _ = cmd.Flags().GetString("filter")
			}
			if err = cfg.Validate(); err != nil {
				return errors.Trace(err)
			}
			term, _ := cmd.Flags().GetString("term")
			outDir, _ := cmd.Flags().GetString("output")
			var inputs subsetInputs
			inputs.Student, _ = cmd.Flags().GetString("student")
			inputs.StudentTerm, _ = cmd.Flags().GetString("student-term")
			inputs.StudentTermCourse, _ = cmd.Flags().GetString("student-term-course")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSubset(ctx, cfg, term, outDir, inputs)
		},
	}
	command.Flags().StringP("term", "t", "", "term code")
	command.Flags().StringP("output", "o", "", "output directory; a TERM_<term> subdirectory is created")
	command.Flags().String("student", "", "student table")
	command.Flags().String("student-term", "", "student-term table")
	command.Flags().String("student-term-course", "", "student-term-course table")
	command.Flags().String("filter", "", "additional filter expression, e.g. SBJCT_CD == 'MATH'")
	for _, name := range []string{"term", "output", "student", "student-term", "student-term-course"} {
		_ = command.MarkFlagRequired(name)
	}
	return command
}

// termExpression selects the records of a term. Numeric term codes compare as numbers.
func termExpression(column, term, filter string) string {
	literal := strconv.Quote(term)
	if _, err := strconv.ParseFloat(term, 64); err == nil {
		literal = term
	}
	expression := fmt.Sprintf("%s == %s", column, literal)
	if strings.TrimSpace(filter) != "" {
		expression = fmt.Sprintf("(%s) && (%s)", expression, filter)
	}
	return expression
}

// joinTarget places a file name under a local directory or an object store prefix.
func joinTarget(dir string, elem ...string) string {
	if storage.IsObjectStore(dir) {
		return strings.TrimRight(dir, "/") + "/" + strings.Join(elem, "/")
	}
	return filepath.Join(append([]string{dir}, elem...)...)
}

func readTable(ctx context.Context, target string, cfg *config.Config) (*dataset.Table, error) {
	var table *dataset.Table
	err := blob.ReadFile(ctx, target, cfg.Storage, func(r io.Reader) (err error) {
		table, err = dataset.ReadCSV(r)
		return err
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("load table", zap.String("input", target), zap.Int("n_records", table.Len()))
	return table, nil
}

func runSubset(ctx context.Context, cfg *config.Config, term, outDir string, inputs subsetInputs) error {
	expression := termExpression(cfg.Columns.Term, term, cfg.Subset.Filter)
	termDir := "TERM_" + term

	student, err := readTable(ctx, inputs.Student, cfg)
	if err != nil {
		return errors.Trace(err)
	}
	subsets := make([]*dataset.Table, 2)
	for i, input := range []struct {
		path string
		name string
	}{
		{inputs.StudentTerm, fmt.Sprintf("LARC_STUDENT_TERM_%s.csv", term)},
		{inputs.StudentTermCourse, fmt.Sprintf("LARC_STUDENT_TERM_COURSE_%s.csv", term)},
	} {
		table, err := readTable(ctx, input.path, cfg)
		if err != nil {
			return errors.Trace(err)
		}
		if subsets[i], err = dataset.Filter(table, expression); err != nil {
			return errors.Trace(err)
		}
		if err = sink.Write(ctx, joinTarget(outDir, termDir, input.name), subsets[i], cfg); err != nil {
			return errors.Trace(err)
		}
	}

	merged, err := dataset.InnerJoin(subsets[1], subsets[0], cfg.Subset.StudentTermKey)
	if err != nil {
		return errors.Trace(err)
	}
	if merged, err = dataset.InnerJoin(merged, student, cfg.Subset.StudentKey); err != nil {
		return errors.Trace(err)
	}
	target := joinTarget(outDir, termDir, fmt.Sprintf("LARC_%s_MERGED.csv", term))
	if err = sink.Write(ctx, target, merged, cfg); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("merge term subset",
		zap.String("term", term),
		zap.String("filter", expression),
		zap.Int("n_records", merged.Len()))
	return nil
}
