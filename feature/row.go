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
	"math"

	"github.com/gorse-io/coenroll/config"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Row holds the four feature families of one neighborhood.
type Row struct {
	Mean       sql.NullFloat64
	Count      []int
	Binary     []int
	Proportion []sql.NullFloat64
}

// EmptyRow is the row of an empty neighborhood: undefined mean and proportions, zero
// counts.
func EmptyRow(bins *Bins) Row {
	return Row{
		Count:      make([]int, bins.Count()),
		Binary:     make([]int, bins.Count()),
		Proportion: make([]sql.NullFloat64, bins.Count()),
	}
}

// Summarize computes mean-link, count-link, binary-link and proportion-link over a
// multiset of feature values. With the skip policy the mean is taken over defined values
// only; with the propagate policy a single undefined value makes it undefined.
func Summarize(values []sql.NullFloat64, bins *Bins, missing string) Row {
	row := EmptyRow(bins)
	defined := make([]float64, 0, len(values))
	undefined := false
	counts := make([]float64, bins.Count())
	for _, value := range values {
		if value.Valid {
			defined = append(defined, value.Float64)
		} else {
			undefined = true
		}
		if i, ok := bins.Assign(value); ok {
			counts[i]++
		}
	}

	if len(defined) > 0 && !(undefined && missing == config.MissingPropagate) {
		row.Mean = sql.NullFloat64{Float64: mean(defined), Valid: true}
	}
	total := floats.Sum(counts)
	for i, count := range counts {
		row.Count[i] = int(count)
		if count > 0 {
			row.Binary[i] = 1
		}
		if total > 0 {
			row.Proportion[i] = sql.NullFloat64{Float64: count / total, Valid: true}
		}
	}
	return row
}

// mean is computed around the first value so that identical values average to exactly
// that value. Values near the float64 limits are scaled before summing instead, so the
// mean of finite values stays finite.
func mean(values []float64) float64 {
	shift := values[0]
	residuals := make([]float64, len(values))
	copy(residuals, values)
	floats.AddConst(-shift, residuals)
	if m := shift + stat.Mean(residuals, nil); !math.IsInf(m, 0) && !math.IsNaN(m) {
		return m
	}
	copy(residuals, values)
	floats.Scale(1/float64(len(values)), residuals)
	return floats.Sum(residuals)
}
