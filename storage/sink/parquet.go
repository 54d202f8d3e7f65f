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
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/coenroll/dataset"
	"github.com/juju/errors"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetName maps a column name to a Parquet field name. Schema tags are comma
// separated, so bin stems such as "(0.0,1.0]" are reduced to letters, digits and
// underscores.
func ParquetName(name string) string {
	return strings.TrimRight(strings.Map(func(r rune) rune {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name), "_")
}

// ParquetSchema returns the schema of rows in CSV writer metadata form. Every field is
// optional so that NULL survives.
func ParquetSchema(fields []dataset.Field) ([]string, error) {
	names := mapset.NewThreadUnsafeSet[string]()
	schema := make([]string, len(fields))
	for i, field := range fields {
		name := ParquetName(field.Name)
		if name == "" || names.Contains(name) {
			return nil, errors.NotValidf("parquet field %q for column %q", name, field.Name)
		}
		names.Add(name)
		switch field.Type {
		case dataset.String:
			schema[i] = fmt.Sprintf("name=%s, type=UTF8, repetitiontype=OPTIONAL", name)
		case dataset.Int:
			schema[i] = fmt.Sprintf("name=%s, type=INT64, repetitiontype=OPTIONAL", name)
		case dataset.Float:
			schema[i] = fmt.Sprintf("name=%s, type=DOUBLE, repetitiontype=OPTIONAL", name)
		}
	}
	return schema, nil
}

// WriteParquet writes rows to a local Parquet file.
func WriteParquet(path string, rows dataset.Rows, jobs int) error {
	schema, err := ParquetSchema(rows.Fields())
	if err != nil {
		return errors.Trace(err)
	}
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return errors.Trace(err)
	}
	pw, err := writer.NewCSVWriter(schema, fw, int64(max(jobs, 1)))
	if err != nil {
		_ = fw.Close()
		return errors.Trace(err)
	}
	for i := 0; i < rows.Len(); i++ {
		if err = pw.Write(rows.Row(i)); err != nil {
			_ = fw.Close()
			return errors.Annotatef(err, "failed to write row %d", i)
		}
	}
	if err = pw.WriteStop(); err != nil {
		_ = fw.Close()
		return errors.Trace(err)
	}
	return errors.Trace(fw.Close())
}
