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
	"path/filepath"
	"testing"

	"github.com/gorse-io/coenroll/dataset"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func TestParquetSchema(t *testing.T) {
	assert.Equal(t, "CL_BIN_NBR_0_0_2_0", ParquetName("CL_BIN_NBR(0.0,2.0]"))
	assert.Equal(t, "ML_GPA", ParquetName("ML_GPA"))
	assert.Equal(t, "CL_BIN__0_0_2_0", ParquetName("CL_BIN_(0.0,2.0]"))

	schema, err := ParquetSchema([]dataset.Field{
		{Name: "STDNT_ID", Type: dataset.String},
		{Name: "ML_GPA", Type: dataset.Float},
		{Name: "CL_BIN_(0.0,2.0]", Type: dataset.Int},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"name=STDNT_ID, type=UTF8, repetitiontype=OPTIONAL",
		"name=ML_GPA, type=DOUBLE, repetitiontype=OPTIONAL",
		"name=CL_BIN__0_0_2_0, type=INT64, repetitiontype=OPTIONAL",
	}, schema)

	_, err = ParquetSchema([]dataset.Field{{Name: "A(B)"}, {Name: "A_B"}})
	assert.True(t, errors.Is(err, errors.NotValid))
	_, err = ParquetSchema([]dataset.Field{{Name: "()"}})
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestWriteParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.parquet")
	require.NoError(t, WriteParquet(path, newFrame(t), 2))

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, nil, 1)
	require.NoError(t, err)
	defer pr.ReadStop()
	assert.Equal(t, int64(2), pr.GetNumRows())
}
