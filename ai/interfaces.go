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

package ai

import "context"

// Tagger assigns part-of-speech tags and lemmas to the words of a sentence.
// Implementations must be thread-safe for concurrent use.
type Tagger interface {
	// Tag returns the tokens of sentence in order. Punctuation may be
	// omitted. Returns an empty slice for an empty sentence.
	Tag(ctx context.Context, sentence string) ([]Token, error)
}

// Token is one tagged word.
type Token struct {
	// Text is the word as it appears in the sentence.
	Text string

	// Tag is a Penn Treebank tag such as "NN", "NNS", "VBD".
	Tag string

	// Lemma is the lowercase base form.
	// Example: "walked" -> "walk", "astronauts" -> "astronaut"
	Lemma string
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
type Provider interface {
	// Tagger returns the tagging service.
	// The returned Tagger is safe for concurrent use.
	Tagger() Tagger

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
