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
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/expr-lang/expr"
	"github.com/juju/errors"
)

// Filter keeps the records for which the boolean expression holds, e.g.
// `TERM_CD == 2010`. Numeric cells are exposed to the expression as numbers, empty
// cells as nil and everything else as strings.
func Filter(table *Table, expression string) (*Table, error) {
	program, err := expr.Compile(expression, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, errors.Annotatef(err, "failed to compile filter %q", expression)
	}
	out, err := NewTable(table.Columns())
	if err != nil {
		return nil, errors.Trace(err)
	}
	env := make(map[string]any, len(table.Columns()))
	for i := 0; i < table.Len(); i++ {
		record := table.Record(i)
		for j, name := range table.Columns() {
			env[name] = cellValue(record[j])
		}
		result, err := expr.Run(program, env)
		if err != nil {
			return nil, errors.Annotatef(err, "failed to evaluate filter on row %d", i)
		}
		if keep, _ := result.(bool); keep {
			out.records = append(out.records, record)
		}
	}
	return out, nil
}

func cellValue(cell string) any {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return v
	}
	return cell
}

// InnerJoin merges the records of left and right that agree on every key column.
// Output rows follow left order, then right order within a key. Non-key columns present
// on both sides get _x and _y suffixes.
func InnerJoin(left, right *Table, keys []string) (*Table, error) {
	if len(keys) == 0 {
		return nil, errors.NotValidf("join without keys")
	}
	leftKeys, err := keyIndices(left, keys)
	if err != nil {
		return nil, errors.Trace(err)
	}
	rightKeys, err := keyIndices(right, keys)
	if err != nil {
		return nil, errors.Trace(err)
	}
	keySet := mapset.NewThreadUnsafeSet(keys...)
	overlap := mapset.NewThreadUnsafeSet(left.Columns()...).
		Intersect(mapset.NewThreadUnsafeSet(right.Columns()...)).
		Difference(keySet)

	var columns []string
	for _, name := range left.Columns() {
		if overlap.Contains(name) {
			name += "_x"
		}
		columns = append(columns, name)
	}
	var rightColumns []int
	for j, name := range right.Columns() {
		if keySet.Contains(name) {
			continue
		}
		if overlap.Contains(name) {
			name += "_y"
		}
		columns = append(columns, name)
		rightColumns = append(rightColumns, j)
	}
	out, err := NewTable(columns)
	if err != nil {
		return nil, errors.Trace(err)
	}

	buckets := make(map[string][]int)
	for i := 0; i < right.Len(); i++ {
		key, ok := joinKey(right.Record(i), rightKeys)
		if ok {
			buckets[key] = append(buckets[key], i)
		}
	}
	for i := 0; i < left.Len(); i++ {
		record := left.Record(i)
		key, ok := joinKey(record, leftKeys)
		if !ok {
			continue
		}
		for _, k := range buckets[key] {
			merged := make([]string, 0, len(columns))
			merged = append(merged, record...)
			for _, j := range rightColumns {
				merged = append(merged, right.Record(k)[j])
			}
			out.records = append(out.records, merged)
		}
	}
	return out, nil
}

func keyIndices(table *Table, keys []string) ([]int, error) {
	indices := make([]int, len(keys))
	for i, key := range keys {
		j, ok := table.ColumnIndex(key)
		if !ok {
			return nil, missingColumn(key)
		}
		indices[i] = j
	}
	return indices, nil
}

// joinKey encodes key cells with a unit separator. Records with a blank key never match.
func joinKey(record []string, indices []int) (string, bool) {
	var builder strings.Builder
	for i, j := range indices {
		cell := strings.TrimSpace(record[j])
		if cell == "" {
			return "", false
		}
		if i > 0 {
			builder.WriteByte('\x1f')
		}
		builder.WriteString(cell)
	}
	return builder.String(), true
}
