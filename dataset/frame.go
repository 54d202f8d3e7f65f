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
	"database/sql"
	"math"

	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Column is a derived feature column. Count and binary columns are typed Int, mean and
// proportion columns are typed Float. An invalid value is NULL.
type Column struct {
	Name   string
	Type   FieldType
	Values []sql.NullFloat64
}

// Frame is the input table extended with derived feature columns.
type Frame struct {
	table   *Table
	columns []Column
	lookup  map[string]int
}

func NewFrame(table *Table) *Frame {
	return &Frame{
		table:  table,
		lookup: make(map[string]int),
	}
}

// AddColumn appends a derived column. Its name must not collide with any input or
// derived column.
func (f *Frame) AddColumn(column Column) error {
	if len(column.Values) != f.table.Len() {
		return errors.NotValidf("column %q with %d values (expected %d)", column.Name, len(column.Values), f.table.Len())
	}
	if _, exist := f.table.ColumnIndex(column.Name); exist {
		return errors.AlreadyExistsf("column %q", column.Name)
	}
	if _, exist := f.lookup[column.Name]; exist {
		return errors.AlreadyExistsf("column %q", column.Name)
	}
	f.lookup[column.Name] = len(f.columns)
	f.columns = append(f.columns, column)
	return nil
}

func (f *Frame) Table() *Table {
	return f.table
}

func (f *Frame) Columns() []Column {
	return f.columns
}

func (f *Frame) Column(name string) (Column, bool) {
	i, ok := f.lookup[name]
	if !ok {
		return Column{}, false
	}
	return f.columns[i], true
}

func (f *Frame) Len() int {
	return f.table.Len()
}

func (f *Frame) Fields() []Field {
	fields := f.table.Fields()
	for _, column := range f.columns {
		fields = append(fields, Field{Name: column.Name, Type: column.Type})
	}
	return fields
}

// Row returns the input cells as strings followed by the derived values as float64 or
// int64. NULL and NaN become nil.
func (f *Frame) Row(i int) []any {
	row := f.table.Row(i)
	for _, column := range f.columns {
		value := column.Values[i]
		switch {
		case !value.Valid || math.IsNaN(value.Float64):
			row = append(row, nil)
		case column.Type == Int:
			row = append(row, int64(value.Float64))
		default:
			row = append(row, value.Float64)
		}
	}
	return row
}

// Header returns the names of all columns in output order.
func (f *Frame) Header() []string {
	return lo.Map(f.Fields(), func(field Field, _ int) string {
		return field.Name
	})
}
