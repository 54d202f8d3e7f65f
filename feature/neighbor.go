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

	"github.com/gorse-io/coenroll/common/parallel"
	"github.com/gorse-io/coenroll/common/progress"
	"github.com/gorse-io/coenroll/dataset"
	"github.com/juju/errors"
)

// NeighborAggregator computes features over the exclusive neighborhood of each student:
// every record sharing a course with the student, minus the student's own records.
type NeighborAggregator struct {
	index    *dataset.Index
	bins     *Bins
	executor parallel.Executor
	missing  string
}

func NewNeighborAggregator(index *dataset.Index, bins *Bins, executor parallel.Executor, missing string) *NeighborAggregator {
	return &NeighborAggregator{
		index:    index,
		bins:     bins,
		executor: executor,
		missing:  missing,
	}
}

// Compute returns the features of a student. A student without neighbors gets EmptyRow.
func (a *NeighborAggregator) Compute(student int) Row {
	return Summarize(a.index.Neighbors(student), a.bins, a.missing)
}

// ComputeAll computes the features of every student. The result is indexed by dense
// student index.
func (a *NeighborAggregator) ComputeAll(ctx context.Context) ([]Row, error) {
	n := a.index.CountStudents()
	rows := make([]Row, n)
	_, span := progress.Start(ctx, "NeighborAggregator.ComputeAll", n)
	err := a.executor.Run(ctx, n, func(_, student int) error {
		rows[student] = a.Compute(student)
		span.Add(1)
		return nil
	})
	if err != nil {
		span.Fail(err)
		return nil, errors.Trace(err)
	}
	span.End()
	return rows, nil
}
