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
	"fmt"

	"github.com/juju/errors"
)

// ErrMissingField is matched by every MissingFieldError.
const ErrMissingField = errors.ConstError("missing field")

// MissingFieldError reports a required column that is absent from the header (Row < 0)
// or a required cell that is empty.
type MissingFieldError struct {
	Row   int
	Field string
}

func (e *MissingFieldError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("missing field: column %q not found", e.Field)
	}
	return fmt.Sprintf("missing field: row %d has no value for %q", e.Row, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

func missingColumn(field string) error {
	return &MissingFieldError{Row: -1, Field: field}
}

func missingCell(row int, field string) error {
	return &MissingFieldError{Row: row, Field: field}
}
