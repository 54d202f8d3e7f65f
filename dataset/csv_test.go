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

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("\ufeffSTDNT_ID, COURSE\ns1,\"MATH_115_001\"\ns2,\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"STDNT_ID", "COURSE"}, table.Columns())
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"s1", "MATH_115_001"}, table.Record(0))
	assert.Equal(t, []string{"s2", ""}, table.Record(1))

	table, err = ReadCSV(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Zero(t, table.Len())

	_, err = ReadCSV(strings.NewReader(""))
	assert.True(t, errors.Is(err, errors.NotValid))
	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)
	_, err = ReadCSV(strings.NewReader("a,a\n1,2\n"))
	assert.True(t, errors.Is(err, errors.AlreadyExists))
}
