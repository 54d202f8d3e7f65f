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
	"testing"

	"github.com/gorse-io/coenroll/config"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseKey(t *testing.T) {
	key, ok := CourseKey("MATH", "115", "001", "_")
	assert.True(t, ok)
	assert.Equal(t, "MATH_115_001", key)
	key, ok = CourseKey(" EECS ", "281", "002", "-")
	assert.True(t, ok)
	assert.Equal(t, "EECS-281-002", key)
	_, ok = CourseKey("MATH", "", "001", "_")
	assert.False(t, ok)
	// a part holding the separator would make distinct courses collide
	_, ok = CourseKey("MATH_1", "15", "001", "_")
	assert.False(t, ok)
	_, ok = CourseKey("MATH", "1_15", "001", "_")
	assert.False(t, ok)
	key, ok = CourseKey("MATH_1", "15", "001", "-")
	assert.True(t, ok)
	assert.Equal(t, "MATH_1-15-001", key)
}

func TestGenerateCourseColumn(t *testing.T) {
	columns := config.GetDefaultConfig().Columns
	table, err := NewTable([]string{"STDNT_ID", "SBJCT_CD", "CATLG_NBR", "CLASS_SCTN_CD"})
	require.NoError(t, err)
	require.NoError(t, table.Append([]string{"s1", "MATH", "115", "001"}))
	require.NoError(t, table.Append([]string{"s2", "MATH", "115", "002"}))

	out, err := GenerateCourseColumn(table, columns, "_")
	require.NoError(t, err)
	v, _ := out.Get(0, "COURSE")
	assert.Equal(t, "MATH_115_001", v)
	v, _ = out.Get(1, "COURSE")
	assert.Equal(t, "MATH_115_002", v)
	assert.Equal(t, 4, len(table.Columns()))

	// regenerating replaces the column
	again, err := GenerateCourseColumn(out, columns, "_")
	require.NoError(t, err)
	assert.Equal(t, out.Columns(), again.Columns())

	// blank section
	require.NoError(t, table.Append([]string{"s3", "MATH", "115", " "}))
	_, err = GenerateCourseColumn(table, columns, "_")
	assert.ErrorIs(t, err, ErrMissingField)
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, 2, missing.Row)
	assert.Equal(t, "CLASS_SCTN_CD", missing.Field)

	// separator inside a part
	table, err = NewTable([]string{"STDNT_ID", "SBJCT_CD", "CATLG_NBR", "CLASS_SCTN_CD"})
	require.NoError(t, err)
	require.NoError(t, table.Append([]string{"s1", "MATH", "1_15", "001"}))
	_, err = GenerateCourseColumn(table, columns, "_")
	assert.True(t, errors.Is(err, errors.NotValid))
	out, err = GenerateCourseColumn(table, columns, "/")
	require.NoError(t, err)
	v, _ = out.Get(0, "COURSE")
	assert.Equal(t, "MATH/1_15/001", v)

	// absent column
	table, err = NewTable([]string{"STDNT_ID", "SBJCT_CD", "CATLG_NBR"})
	require.NoError(t, err)
	_, err = GenerateCourseColumn(table, columns, "_")
	assert.ErrorIs(t, err, ErrMissingField)
}
