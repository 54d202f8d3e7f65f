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
	"testing"

	"github.com/gorse-io/coenroll/config"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollmentTable(t *testing.T, records ...[]string) *Table {
	table, err := NewTable([]string{"STDNT_ID", "COURSE", "PREV_TERM_CUM_GPA"})
	require.NoError(t, err)
	for _, record := range records {
		require.NoError(t, table.Append(record))
	}
	return table
}

func TestEnrollments(t *testing.T) {
	columns := config.GetDefaultConfig().Columns
	table := newEnrollmentTable(t,
		[]string{"s1", "A", "3.5"},
		[]string{"s2", "A", ""},
		[]string{"s1", "A", "3.5"},
	)
	enrollments, err := Enrollments(table, columns)
	require.NoError(t, err)
	assert.Equal(t, []Enrollment{
		{Row: 0, StudentId: "s1", CourseId: "A", Value: sql.NullFloat64{Float64: 3.5, Valid: true}},
		{Row: 1, StudentId: "s2", CourseId: "A"},
		{Row: 2, StudentId: "s1", CourseId: "A", Value: sql.NullFloat64{Float64: 3.5, Valid: true}},
	}, enrollments)
}

func TestEnrollmentsError(t *testing.T) {
	columns := config.GetDefaultConfig().Columns
	_, err := Enrollments(newEnrollmentTable(t, []string{"", "A", "1"}), columns)
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = Enrollments(newEnrollmentTable(t, []string{"s1", "", "1"}), columns)
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = Enrollments(newEnrollmentTable(t, []string{"s1", "A", "abc"}), columns)
	assert.True(t, errors.Is(err, errors.NotValid))

	columns.Feature = "GPA"
	_, err = Enrollments(newEnrollmentTable(t, []string{"s1", "A", "1"}), columns)
	assert.ErrorIs(t, err, ErrMissingField)
}
