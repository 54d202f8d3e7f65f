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
	"database/sql"

	"github.com/gorse-io/coenroll/dataset"
	"github.com/juju/errors"
)

// Assemble appends the derived columns to every record of the table, keeping record
// order. Neighbor features are looked up by student and classmate features by course.
// A record whose key has no features gets NULL in every derived column.
func Assemble(table *dataset.Table, enrollments []dataset.Enrollment, index *dataset.Index,
	schema *Schema, neighbors, classmates []Row) (*dataset.Frame, error) {
	if len(enrollments) != table.Len() {
		return nil, errors.NotValidf("%d enrollments for %d records", len(enrollments), table.Len())
	}
	neighborFields := schema.NeighborFields()
	classmateFields := schema.ClassmateFields()
	neighborColumns := newColumns(neighborFields, table.Len())
	classmateColumns := newColumns(classmateFields, table.Len())

	for i, enrollment := range enrollments {
		if student, ok := index.LookupStudent(enrollment.StudentId); ok && student < len(neighbors) {
			for j, value := range schema.NeighborValues(neighbors[student]) {
				neighborColumns[j].Values[i] = value
			}
		}
		if course, ok := index.LookupCourse(enrollment.CourseId); ok && course < len(classmates) {
			for j, value := range schema.ClassmateValues(classmates[course]) {
				classmateColumns[j].Values[i] = value
			}
		}
	}

	frame := dataset.NewFrame(table)
	for _, column := range append(neighborColumns, classmateColumns...) {
		if err := frame.AddColumn(column); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return frame, nil
}

func newColumns(fields []dataset.Field, n int) []dataset.Column {
	columns := make([]dataset.Column, len(fields))
	for i, field := range fields {
		columns[i] = dataset.Column{
			Name:   field.Name,
			Type:   field.Type,
			Values: make([]sql.NullFloat64, n),
		}
	}
	return columns
}
