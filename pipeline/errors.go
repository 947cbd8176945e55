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

package pipeline

import "errors"

var (
	// ErrExtractorRequired is returned when a feature extractor is not provided.
	ErrExtractorRequired = errors.New("feature extractor required")

	// ErrEngineRequired is returned when an expansion engine is not provided.
	ErrEngineRequired = errors.New("expansion engine required")

	// ErrCodecRequired is returned when a record codec is not provided.
	ErrCodecRequired = errors.New("record codec required")

	// ErrNoQuery is returned when scoring input contains no query record.
	ErrNoQuery = errors.New("no query record")

	// ErrInvalidMaxAttempts is returned when maxAttempts is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
