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

package dataset

import (
	"database/sql"
	"strings"

	"github.com/gorse-io/coenroll/common/util"
	"github.com/gorse-io/coenroll/config"
	"github.com/juju/errors"
)

// Enrollment is one (student, course) record of a term. Value is undefined when the
// feature cell is empty.
type Enrollment struct {
	Row       int
	StudentId string
	CourseId  string
	Value     sql.NullFloat64
}

// Enrollments extracts typed enrollments from a table whose course column has been
// generated. Records are kept in table order and never deduplicated.
func Enrollments(table *Table, columns config.ColumnsConfig) ([]Enrollment, error) {
	var indices [3]int
	for i, name := range []string{columns.StudentId, columns.Course, columns.Feature} {
		j, ok := table.ColumnIndex(name)
		if !ok {
			return nil, errors.Trace(missingColumn(name))
		}
		indices[i] = j
	}
	enrollments := make([]Enrollment, table.Len())
	for i := range enrollments {
		record := table.Record(i)
		studentId := strings.TrimSpace(record[indices[0]])
		if studentId == "" {
			return nil, errors.Trace(missingCell(i, columns.StudentId))
		}
		courseId := record[indices[1]]
		if courseId == "" {
			return nil, errors.Trace(missingCell(i, columns.Course))
		}
		value, err := util.ParseNullFloat(record[indices[2]])
		if err != nil {
			return nil, errors.Annotatef(err, "row %d, column %q", i, columns.Feature)
		}
		enrollments[i] = Enrollment{
			Row:       i,
			StudentId: studentId,
			CourseId:  courseId,
			Value:     value,
		}
	}
	return enrollments, nil
}
