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

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidPOS indicates a part-of-speech label other than NOUN or VERB.
	ErrInvalidPOS = errors.New("invalid part of speech")

	// ErrInvalidRelation indicates an unknown relation kind.
	ErrInvalidRelation = errors.New("invalid relation kind")

	// ErrInvalidConcept indicates a Concept failed validation.
	ErrInvalidConcept = errors.New("invalid concept")

	// ErrInvalidSense indicates a Sense failed validation.
	ErrInvalidSense = errors.New("invalid sense")

	// ErrEmptyMembers indicates a concept without member lemmas.
	ErrEmptyMembers = errors.New("concept must have at least one member")

	// ErrEmptyLemma indicates an empty lemma.
	ErrEmptyLemma = errors.New("lemma cannot be empty")

	// ErrDuplicateLemma indicates a lemma listed twice in an ordered set.
	ErrDuplicateLemma = errors.New("duplicate lemma")
)
