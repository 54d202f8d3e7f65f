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

	"github.com/gorse-io/coenroll/config"
	"github.com/juju/errors"
)

// CourseKey joins subject, number and section into a course identifier, e.g. MATH_115_001.
// Two enrollments are in the same course iff their keys are equal, so none of the parts
// may be blank or contain the separator.
func CourseKey(subject, number, section, sep string) (string, bool) {
	parts := []string{strings.TrimSpace(subject), strings.TrimSpace(number), strings.TrimSpace(section)}
	for _, part := range parts {
		if part == "" || (sep != "" && strings.Contains(part, sep)) {
			return "", false
		}
	}
	return strings.Join(parts, sep), true
}

// GenerateCourseColumn returns a copy of table with the course identifier column set on
// every record.
func GenerateCourseColumn(table *Table, columns config.ColumnsConfig, sep string) (*Table, error) {
	parts := []string{columns.Subject, columns.CourseNumber, columns.Section}
	indices := make([]int, len(parts))
	for i, name := range parts {
		j, ok := table.ColumnIndex(name)
		if !ok {
			return nil, errors.Trace(missingColumn(name))
		}
		indices[i] = j
	}
	keys := make([]string, table.Len())
	for i := 0; i < table.Len(); i++ {
		record := table.Record(i)
		for k, j := range indices {
			cell := strings.TrimSpace(record[j])
			if cell == "" {
				return nil, errors.Trace(missingCell(i, parts[k]))
			}
			// MATH_1 + 15 and MATH + 1_15 would share a key
			if sep != "" && strings.Contains(cell, sep) {
				return nil, errors.NotValidf("row %d, column %q value %q containing course separator %q", i, parts[k], cell, sep)
			}
		}
		keys[i], _ = CourseKey(record[indices[0]], record[indices[1]], record[indices[2]], sep)
	}
	return table.WithColumn(columns.Course, keys)
}
