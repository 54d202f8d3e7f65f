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
	"slices"

	"github.com/juju/errors"
	"github.com/samber/lo"
)

type FieldType int

const (
	String FieldType = iota
	Float
	Int
)

type Field struct {
	Name string
	Type FieldType
}

// Rows is a read-only view of tabular data. Row returns string, float64, int64 or nil
// cells in field order.
type Rows interface {
	Fields() []Field
	Len() int
	Row(i int) []any
}

// Table is a set of records with named string columns. Tables are not modified once
// built: operations adding columns return a new table.
type Table struct {
	columns []string
	lookup  map[string]int
	records [][]string
}

func NewTable(columns []string) (*Table, error) {
	lookup := make(map[string]int, len(columns))
	for i, column := range columns {
		if _, exist := lookup[column]; exist {
			return nil, errors.AlreadyExistsf("column %q", column)
		}
		lookup[column] = i
	}
	return &Table{
		columns: columns,
		lookup:  lookup,
	}, nil
}

func (t *Table) Columns() []string {
	return t.columns
}

func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.lookup[name]
	return i, ok
}

// Append adds a record. The record is owned by the table afterwards.
func (t *Table) Append(record []string) error {
	if len(record) != len(t.columns) {
		return errors.NotValidf("record with %d fields (expected %d)", len(record), len(t.columns))
	}
	t.records = append(t.records, record)
	return nil
}

func (t *Table) Len() int {
	return len(t.records)
}

func (t *Table) Record(i int) []string {
	return t.records[i]
}

// Get returns the value of a cell by column name.
func (t *Table) Get(i int, column string) (string, bool) {
	j, ok := t.lookup[column]
	if !ok {
		return "", false
	}
	return t.records[i][j], true
}

// WithColumn returns a new table with the column appended, or replaced if a column with
// the same name exists.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.records) {
		return nil, errors.NotValidf("column %q with %d values (expected %d)", name, len(values), len(t.records))
	}
	j, exist := t.lookup[name]
	columns := t.columns
	if !exist {
		j = len(t.columns)
		columns = append(slices.Clone(t.columns), name)
	}
	out, err := NewTable(columns)
	if err != nil {
		return nil, errors.Trace(err)
	}
	out.records = make([][]string, len(t.records))
	for i, record := range t.records {
		copied := make([]string, len(columns))
		copy(copied, record)
		copied[j] = values[i]
		out.records[i] = copied
	}
	return out, nil
}

func (t *Table) Fields() []Field {
	return lo.Map(t.columns, func(name string, _ int) Field {
		return Field{Name: name, Type: String}
	})
}

func (t *Table) Row(i int) []any {
	return lo.Map(t.records[i], func(cell string, _ int) any {
		return cell
	})
}
