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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustReadCSV(t *testing.T, text string) *Table {
	table, err := ReadCSV(strings.NewReader(text))
	require.NoError(t, err)
	return table
}

func TestFilter(t *testing.T) {
	table := mustReadCSV(t, "STDNT_ID,TERM_CD,SBJCT_CD\ns1,2010,MATH\ns2,2020,EECS\ns3,2010,EECS\ns4,,MATH\n")
	out, err := Filter(table, "TERM_CD == 2010")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, "s1", out.Record(0)[0])
	assert.Equal(t, "s3", out.Record(1)[0])

	out, err = Filter(table, "SBJCT_CD == 'MATH' && TERM_CD == nil")
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, "s4", out.Record(0)[0])

	_, err = Filter(table, "TERM_CD ==")
	assert.Error(t, err)
}

func TestInnerJoin(t *testing.T) {
	courses := mustReadCSV(t, "STDNT_ID,TERM_CD,COURSE,GRADE\ns1,2010,A,B+\ns2,2010,A,A\ns1,2020,B,C\ns3,2010,B,A\n")
	terms := mustReadCSV(t, "STDNT_ID,TERM_CD,PREV_TERM_CUM_GPA,GRADE\ns1,2010,3.5,x\ns2,2010,2.0,y\ns1,2020,3.6,z\n")

	out, err := InnerJoin(courses, terms, []string{"STDNT_ID", "TERM_CD"})
	require.NoError(t, err)
	assert.Equal(t, []string{"STDNT_ID", "TERM_CD", "COURSE", "GRADE_x", "PREV_TERM_CUM_GPA", "GRADE_y"}, out.Columns())
	assert.Equal(t, 3, out.Len())
	assert.Equal(t, []string{"s1", "2010", "A", "B+", "3.5", "x"}, out.Record(0))
	assert.Equal(t, []string{"s2", "2010", "A", "A", "2.0", "y"}, out.Record(1))
	assert.Equal(t, []string{"s1", "2020", "B", "C", "3.6", "z"}, out.Record(2))

	_, err = InnerJoin(courses, terms, []string{"COURSE"})
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = InnerJoin(courses, terms, nil)
	assert.Error(t, err)
}
