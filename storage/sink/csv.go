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
	"encoding/csv"
	"io"
	"strconv"

	"github.com/gorse-io/coenroll/common/util"
	"github.com/gorse-io/coenroll/dataset"
	"github.com/juju/errors"
)

// WriteCSV writes a header and every row. NULL is written as an empty cell.
func WriteCSV(w io.Writer, rows dataset.Rows) error {
	writer := csv.NewWriter(w)
	fields := rows.Fields()
	record := make([]string, len(fields))
	for i, field := range fields {
		record[i] = field.Name
	}
	if err := writer.Write(record); err != nil {
		return errors.Trace(err)
	}
	for i := 0; i < rows.Len(); i++ {
		for j, cell := range rows.Row(i) {
			record[j] = formatCell(cell)
		}
		if err := writer.Write(record); err != nil {
			return errors.Trace(err)
		}
	}
	writer.Flush()
	return errors.Trace(writer.Error())
}

func formatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return util.FormatFloat(v)
	default:
		panic("unsupported cell type")
	}
}
