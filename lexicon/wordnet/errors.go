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

package wordnet

import "errors"

var (
	// ErrMalformedLine indicates a database file line that does not follow the WordNet format.
	ErrMalformedLine = errors.New("malformed wordnet line")

	// ErrLoaderRequired indicates that no loader was supplied to the importer.
	ErrLoaderRequired = errors.New("loader is required")
)
