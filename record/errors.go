// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package record

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord indicates a line that does not follow the record format.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidCodec indicates an unusable delimiter or query marker.
	ErrInvalidCodec = errors.New("invalid record codec")
)

// ParseError describes the first malformed line of an input.
type ParseError struct {
	Line   int
	Record string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %s: %q", e.Line, ErrMalformedRecord, e.Reason, e.Record)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedRecord
}
