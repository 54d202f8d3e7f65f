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

package main

import (
	"io"
	"strconv"

	"github.com/gorse-io/coenroll/common/util"
	"github.com/gorse-io/coenroll/dataset"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"
)

// summarize describes each derived column by its number of defined cells and their mean.
func summarize(frame *dataset.Frame) [][]string {
	var rows [][]string
	for _, column := range frame.Columns() {
		var values []float64
		for _, value := range column.Values {
			if value.Valid {
				values = append(values, value.Float64)
			}
		}
		mean := ""
		if len(values) > 0 {
			mean = util.FormatFloat(stat.Mean(values, nil))
		}
		rows = append(rows, []string{
			column.Name,
			strconv.Itoa(len(values)),
			strconv.Itoa(len(column.Values) - len(values)),
			mean,
		})
	}
	return rows
}

func printSummary(w io.Writer, frame *dataset.Frame) error {
	table := tablewriter.NewWriter(w)
	table.Header("Column", "Defined", "Null", "Mean")
	for _, row := range summarize(frame) {
		if err := table.Append(row); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
