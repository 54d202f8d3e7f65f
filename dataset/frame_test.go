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
	"math"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame(t *testing.T) {
	table, err := NewTable([]string{"STDNT_ID"})
	require.NoError(t, err)
	require.NoError(t, table.Append([]string{"s1"}))
	require.NoError(t, table.Append([]string{"s2"}))

	frame := NewFrame(table)
	require.NoError(t, frame.AddColumn(Column{Name: "ML_GPA", Type: Float,
		Values: []sql.NullFloat64{value(2.5), {Float64: math.NaN(), Valid: true}}}))
	require.NoError(t, frame.AddColumn(Column{Name: "CL_BIN_(0.0,2.0]", Type: Int,
		Values: []sql.NullFloat64{value(1), value(0)}}))
	require.NoError(t, frame.AddColumn(Column{Name: "PL_BIN_(0.0,2.0]", Type: Float,
		Values: []sql.NullFloat64{value(0.5), {}}}))

	assert.Equal(t, 2, frame.Len())
	assert.Equal(t, []string{"STDNT_ID", "ML_GPA", "CL_BIN_(0.0,2.0]", "PL_BIN_(0.0,2.0]"}, frame.Header())
	assert.Equal(t, Int, frame.Fields()[2].Type)
	assert.Equal(t, []any{"s1", 2.5, int64(1), 0.5}, frame.Row(0))
	assert.Equal(t, []any{"s2", nil, int64(0), nil}, frame.Row(1))
	column, ok := frame.Column("ML_GPA")
	assert.True(t, ok)
	assert.Equal(t, Float, column.Type)
	_, ok = frame.Column("ML_NBR_GPA")
	assert.False(t, ok)

	err = frame.AddColumn(Column{Name: "STDNT_ID", Values: make([]sql.NullFloat64, 2)})
	assert.True(t, errors.Is(err, errors.AlreadyExists))
	err = frame.AddColumn(Column{Name: "ML_GPA", Values: make([]sql.NullFloat64, 2)})
	assert.True(t, errors.Is(err, errors.AlreadyExists))
	err = frame.AddColumn(Column{Name: "X", Values: make([]sql.NullFloat64, 1)})
	assert.True(t, errors.Is(err, errors.NotValid))
}
