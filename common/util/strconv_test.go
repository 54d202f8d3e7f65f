// Copyright 2024 gorse Project Authors
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

package util

import (
	"database/sql"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseNullFloat(t *testing.T) {
	v, err := ParseNullFloat("3.25")
	assert.NoError(t, err)
	assert.Equal(t, sql.NullFloat64{Float64: 3.25, Valid: true}, v)
	v, err = ParseNullFloat(" -1 ")
	assert.NoError(t, err)
	assert.Equal(t, sql.NullFloat64{Float64: -1, Valid: true}, v)
	for _, s := range []string{"", "  ", "NA", "nan", "NaN", "null"} {
		v, err = ParseNullFloat(s)
		assert.NoError(t, err)
		assert.False(t, v.Valid, s)
	}
	for _, s := range []string{"inf", "-Inf", "+infinity", "1e999", "-1e999"} {
		v, err = ParseNullFloat(s)
		assert.NoError(t, err)
		assert.False(t, v.Valid, s)
	}
	v, err = ParseNullFloat("1e-999")
	assert.NoError(t, err)
	assert.Equal(t, sql.NullFloat64{Float64: 0, Valid: true}, v)
	v, err = ParseNullFloat("1e308")
	assert.NoError(t, err)
	assert.Equal(t, sql.NullFloat64{Float64: 1e308, Valid: true}, v)
	_, err = ParseNullFloat("A+")
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "3.5", FormatFloat(3.5))
	assert.Equal(t, "0.1", FormatFloat(0.1))
	assert.Equal(t, "100", FormatFloat(100))
	assert.Equal(t, "", FormatNullFloat(sql.NullFloat64{}))
	assert.Equal(t, "0", FormatNullFloat(sql.NullFloat64{Valid: true}))
}
