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
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gorse-io/coenroll/common/util"
	"github.com/juju/errors"
)

// DefaultCuts are the GPA bins (0,1], (1,2], (2,3], (3,4], (4,100].
var DefaultCuts = []float64{0, 1, 2, 3, 4, 100}

// Bins partitions the real line into half-open intervals (cut[i], cut[i+1]]. Values at or
// below the first cut point, above the last one, undefined or NaN fall in no bin.
type Bins struct {
	cuts []float64
}

func NewBins(cuts []float64) (*Bins, error) {
	if len(cuts) < 2 {
		return nil, errors.NotValidf("%d cut points (at least 2 required)", len(cuts))
	}
	for i, cut := range cuts {
		if math.IsNaN(cut) || math.IsInf(cut, 0) {
			return nil, errors.NotValidf("cut point %v", cut)
		}
		if i > 0 && cut <= cuts[i-1] {
			return nil, errors.NotValidf("cut points %v (must be strictly increasing)", cuts)
		}
	}
	return &Bins{cuts: append([]float64(nil), cuts...)}, nil
}

func DefaultBins() *Bins {
	bins, _ := NewBins(DefaultCuts)
	return bins
}

// Count returns the number of bins.
func (b *Bins) Count() int {
	return len(b.cuts) - 1
}

func (b *Bins) Cuts() []float64 {
	return b.cuts
}

// Label returns the interval notation of a bin, e.g. "(0.0, 1.0]".
func (b *Bins) Label(i int) string {
	return fmt.Sprintf("(%s, %s]", formatCut(b.cuts[i]), formatCut(b.cuts[i+1]))
}

// Stem is the label without spaces, used in column names.
func (b *Bins) Stem(i int) string {
	return strings.ReplaceAll(b.Label(i), " ", "")
}

// Assign returns the bin of a value.
func (b *Bins) Assign(value sql.NullFloat64) (int, bool) {
	if !value.Valid || math.IsNaN(value.Float64) {
		return 0, false
	}
	v := value.Float64
	if v <= b.cuts[0] || v > b.cuts[len(b.cuts)-1] {
		return 0, false
	}
	// first cut >= v closes the bin
	return sort.SearchFloat64s(b.cuts, v) - 1, true
}

func formatCut(v float64) string {
	s := util.FormatFloat(v)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
