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

package feature

import (
	"database/sql"

	"github.com/gorse-io/coenroll/config"
	"github.com/gorse-io/coenroll/dataset"
	"github.com/samber/lo"
)

const (
	countLinkPrefix      = "CL_BIN_"
	binaryLinkPrefix     = "BL_BIN_"
	proportionLinkPrefix = "PL_BIN_"
	classmateInfix       = "NBR"
)

// Schema names the derived columns. Names depend only on the bins and the configured
// mean-link names.
type Schema struct {
	bins              *Bins
	meanLink          string
	classmateMeanLink string
}

func NewSchema(bins *Bins, features config.FeaturesConfig) *Schema {
	return &Schema{
		bins:              bins,
		meanLink:          features.MeanLinkColumn,
		classmateMeanLink: features.ClassmateMeanLinkColumn,
	}
}

func (s *Schema) binColumns(prefix, infix string) []string {
	names := make([]string, s.bins.Count())
	for i := range names {
		names[i] = prefix + infix + s.bins.Stem(i)
	}
	return names
}

// NeighborFields returns ML_GPA, CL_BIN_*, BL_BIN_* and PL_BIN_* in output order.
func (s *Schema) NeighborFields() []dataset.Field {
	fields := []dataset.Field{{Name: s.meanLink, Type: dataset.Float}}
	fields = append(fields, typed(s.binColumns(countLinkPrefix, ""), dataset.Int)...)
	fields = append(fields, typed(s.binColumns(binaryLinkPrefix, ""), dataset.Int)...)
	fields = append(fields, typed(s.binColumns(proportionLinkPrefix, ""), dataset.Float)...)
	return fields
}

// ClassmateFields returns CL_BIN_NBR*, PL_BIN_NBR*, BL_BIN_NBR* and ML_NBR_GPA in output
// order.
func (s *Schema) ClassmateFields() []dataset.Field {
	fields := typed(s.binColumns(countLinkPrefix, classmateInfix), dataset.Int)
	fields = append(fields, typed(s.binColumns(proportionLinkPrefix, classmateInfix), dataset.Float)...)
	fields = append(fields, typed(s.binColumns(binaryLinkPrefix, classmateInfix), dataset.Int)...)
	fields = append(fields, dataset.Field{Name: s.classmateMeanLink, Type: dataset.Float})
	return fields
}

// NeighborValues flattens a row in NeighborFields order.
func (s *Schema) NeighborValues(row Row) []sql.NullFloat64 {
	values := []sql.NullFloat64{row.Mean}
	values = append(values, ints(row.Count)...)
	values = append(values, ints(row.Binary)...)
	values = append(values, row.Proportion...)
	return values
}

// ClassmateValues flattens a row in ClassmateFields order.
func (s *Schema) ClassmateValues(row Row) []sql.NullFloat64 {
	values := ints(row.Count)
	values = append(values, row.Proportion...)
	values = append(values, ints(row.Binary)...)
	values = append(values, row.Mean)
	return values
}

func typed(names []string, fieldType dataset.FieldType) []dataset.Field {
	fields := make([]dataset.Field, len(names))
	for i, name := range names {
		fields[i] = dataset.Field{Name: name, Type: fieldType}
	}
	return fields
}

func ints(counts []int) []sql.NullFloat64 {
	return lo.Map(counts, func(count int, _ int) sql.NullFloat64 {
		return sql.NullFloat64{Float64: float64(count), Valid: true}
	})
}
