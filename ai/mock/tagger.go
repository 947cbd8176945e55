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

package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/topicrank/ai"
)

// MockTagger is a test double for ai.Tagger.
// It allows custom behavior injection via function fields.
type MockTagger struct {
	// TagFunc is called by Tag if set.
	// If nil, uses default word splitting with Tags lookups.
	TagFunc func(ctx context.Context, sentence string) ([]ai.Token, error)

	// Tags maps a lowercase word to its tag for the default behavior.
	// Words not in the map are tagged "NN".
	Tags map[string]string

	mu        sync.Mutex
	callCount int
}

// NewMockTagger creates a mock tagger with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockTagger() *MockTagger {
	return &MockTagger{}
}

// WithTags sets the tag lookup used by the default behavior.
func (m *MockTagger) WithTags(tags map[string]string) *MockTagger {
	m.Tags = tags
	return m
}

// WithTagFunc sets custom behavior for Tag.
func (m *MockTagger) WithTagFunc(fn func(ctx context.Context, sentence string) ([]ai.Token, error)) *MockTagger {
	m.TagFunc = fn
	return m
}

// Tag splits the sentence on whitespace and tags each word.
// Safe for concurrent use as long as TagFunc is.
func (m *MockTagger) Tag(ctx context.Context, sentence string) ([]ai.Token, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.TagFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, sentence)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := strings.Fields(sentence)
	tokens := make([]ai.Token, 0, len(words))
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()[]{}`")
		if word == "" {
			continue
		}
		lemma := strings.ToLower(word)
		tag, ok := m.Tags[lemma]
		if !ok {
			tag = "NN"
		}
		tokens = append(tokens, ai.Token{Text: word, Tag: tag, Lemma: lemma})
	}
	return tokens, nil
}

// CallCount returns the number of times Tag was called.
func (m *MockTagger) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockTagger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.TagFunc = nil
}
