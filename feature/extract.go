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

package feature

import (
	"context"
	"time"

	"github.com/gorse-io/coenroll/common/log"
	"github.com/gorse-io/coenroll/common/parallel"
	"github.com/gorse-io/coenroll/config"
	"github.com/gorse-io/coenroll/dataset"
	"github.com/juju/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Extractor runs the whole pipeline on one term: course keys, bipartite index, neighbor
// and classmate features, then assembly.
type Extractor struct {
	columns  config.ColumnsConfig
	features config.FeaturesConfig
	bins     *Bins
	executor parallel.Executor
	tracer   trace.Tracer
}

// NewExtractor creates an extractor. A nil executor is replaced by a worker pool sized
// by the jobs option.
func NewExtractor(cfg *config.Config, executor parallel.Executor) (*Extractor, error) {
	bins, err := NewBins(cfg.Features.Bins)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if executor == nil {
		executor = parallel.NewExecutor(cfg.Features.Jobs)
	}
	return &Extractor{
		columns:  cfg.Columns,
		features: cfg.Features,
		bins:     bins,
		executor: executor,
		tracer:   otel.Tracer("coenroll"),
	}, nil
}

func (e *Extractor) Bins() *Bins {
	return e.bins
}

func (e *Extractor) Schema() *Schema {
	return NewSchema(e.bins, e.features)
}

// Extract appends the feature columns to the table. Nothing is returned unless every
// stage succeeds.
func (e *Extractor) Extract(ctx context.Context, table *dataset.Table) (frame *dataset.Frame, err error) {
	ctx, span := e.tracer.Start(ctx, "Extract", trace.WithAttributes(attribute.Int("records", table.Len())))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	startTime := time.Now()
	table, err = dataset.GenerateCourseColumn(table, e.columns, e.features.Separator)
	if err != nil {
		return nil, errors.Trace(err)
	}
	enrollments, err := dataset.Enrollments(table, e.columns)
	if err != nil {
		return nil, errors.Trace(err)
	}
	_, indexSpan := e.tracer.Start(ctx, "NewIndex")
	index := dataset.NewIndex(enrollments)
	indexSpan.SetAttributes(
		attribute.Int("students", index.CountStudents()),
		attribute.Int("courses", index.CountCourses()))
	indexSpan.End()
	log.Logger().Info("build bipartite index",
		zap.Int("n_enrollments", len(enrollments)),
		zap.Int("n_students", index.CountStudents()),
		zap.Int("n_courses", index.CountCourses()),
		zap.Duration("time_used", time.Since(startTime)))

	startTime = time.Now()
	neighborCtx, neighborSpan := e.tracer.Start(ctx, "NeighborAggregator.ComputeAll")
	neighborAggregator := NewNeighborAggregator(index, e.bins, e.executor, e.features.Missing)
	neighbors, err := neighborAggregator.ComputeAll(neighborCtx)
	neighborSpan.End()
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("compute neighbor features",
		zap.Int("n_students", len(neighbors)),
		zap.Int("n_workers", e.executor.Workers()),
		zap.Duration("time_used", time.Since(startTime)))

	startTime = time.Now()
	classmateCtx, classmateSpan := e.tracer.Start(ctx, "ClassmateAggregator.ComputeAll")
	classmateAggregator := NewClassmateAggregator(index, e.bins, e.features.Missing)
	classmates, err := classmateAggregator.ComputeAll(classmateCtx)
	classmateSpan.End()
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("compute classmate features",
		zap.Int("n_courses", len(classmates)),
		zap.Duration("time_used", time.Since(startTime)))
	e.logSummary(classmateAggregator, neighbors)

	if err = ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	_, assembleSpan := e.tracer.Start(ctx, "Assemble")
	frame, err = Assemble(table, enrollments, index, e.Schema(), neighbors, classmates)
	assembleSpan.End()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return frame, nil
}

func (e *Extractor) logSummary(classmates *ClassmateAggregator, neighbors []Row) {
	undefined := 0
	for _, row := range neighbors {
		if !row.Mean.Valid {
			undefined++
		}
	}
	degenerate := 0
	for course := 0; course < classmates.index.CountCourses(); course++ {
		if classmates.IsDegenerate(course) {
			degenerate++
		}
	}
	log.Logger().Debug("feature summary",
		zap.Int("n_undefined_neighborhoods", undefined),
		zap.Int("n_single_student_courses", degenerate))
}
