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
	"database/sql"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/coenroll/common/progress"
	"github.com/gorse-io/coenroll/dataset"
	"github.com/juju/errors"
)

// ClassmateAggregator computes features over the inclusive roster of each course.
type ClassmateAggregator struct {
	index   *dataset.Index
	bins    *Bins
	missing string
}

func NewClassmateAggregator(index *dataset.Index, bins *Bins, missing string) *ClassmateAggregator {
	return &ClassmateAggregator{
		index:   index,
		bins:    bins,
		missing: missing,
	}
}

// IsDegenerate reports whether a course holds a single distinct student.
func (a *ClassmateAggregator) IsDegenerate(course int) bool {
	students := mapset.NewThreadUnsafeSet[int32]()
	for _, member := range a.index.Roster(course) {
		students.Add(member.Student)
	}
	return students.Cardinality() <= 1
}

// Compute returns the features of a course. Proportions of a degenerate course are
// undefined while its counts stay defined.
func (a *ClassmateAggregator) Compute(course int) Row {
	row := Summarize(a.index.Classmates(course), a.bins, a.missing)
	if a.IsDegenerate(course) {
		for i := range row.Proportion {
			row.Proportion[i] = sql.NullFloat64{}
		}
	}
	return row
}

// ComputeAll computes the features of every course. The result is indexed by dense
// course index.
func (a *ClassmateAggregator) ComputeAll(ctx context.Context) ([]Row, error) {
	n := a.index.CountCourses()
	rows := make([]Row, n)
	_, span := progress.Start(ctx, "ClassmateAggregator.ComputeAll", n)
	for course := 0; course < n; course++ {
		if err := ctx.Err(); err != nil {
			span.Fail(err)
			return nil, errors.Trace(err)
		}
		rows[course] = a.Compute(course)
		span.Add(1)
	}
	span.End()
	return rows, nil
}
