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

package sink

import (
	"bytes"
	"database/sql"
	"testing"

	"github.com/gorse-io/coenroll/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrame(t *testing.T) *dataset.Frame {
	table, err := dataset.NewTable([]string{"STDNT_ID", "COURSE"})
	require.NoError(t, err)
	require.NoError(t, table.Append([]string{"s1", "MATH_115_001"}))
	require.NoError(t, table.Append([]string{"s2", "EECS_281_001"}))
	frame := dataset.NewFrame(table)
	require.NoError(t, frame.AddColumn(dataset.Column{
		Name:   "ML_GPA",
		Type:   dataset.Float,
		Values: []sql.NullFloat64{{Float64: 3.25, Valid: true}, {}},
	}))
	require.NoError(t, frame.AddColumn(dataset.Column{
		Name:   "CL_BIN_(0.0,2.0]",
		Type:   dataset.Int,
		Values: []sql.NullFloat64{{Float64: 2, Valid: true}, {Float64: 0, Valid: true}},
	}))
	return frame
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, newFrame(t)))
	assert.Equal(t, "STDNT_ID,COURSE,ML_GPA,\"CL_BIN_(0.0,2.0]\"\n"+
		"s1,MATH_115_001,3.25,2\n"+
		"s2,EECS_281_001,,0\n", buf.String())
}
