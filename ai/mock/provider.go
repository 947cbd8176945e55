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

import "github.com/poiesic/topicrank/ai"

// MockProvider is a test double for ai.Provider.
type MockProvider struct {
	tagger *MockTagger
	closed bool
}

// NewMockProvider creates a new mock provider with a default mock tagger.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockTagger() to access the concrete type for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{tagger: NewMockTagger()}
}

// NewMockProviderWithTagger creates a mock provider around a custom mock tagger.
func NewMockProviderWithTagger(tagger *MockTagger) ai.Provider {
	return &MockProvider{tagger: tagger}
}

// Tagger returns the mock tagger.
func (p *MockProvider) Tagger() ai.Tagger {
	return p.tagger
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockTagger returns the underlying mock tagger for test assertions.
func (p *MockProvider) GetMockTagger() *MockTagger {
	return p.tagger
}
