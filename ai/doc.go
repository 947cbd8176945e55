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

// Package ai provides abstractions for the AI services used by topicrank.
//
// The only service is part-of-speech tagging: turning a sentence into
// tokens with a Penn Treebank tag and a lemma. Feature extraction then
// keeps the nouns and verbs.
//
// # Implementation Packages
//
//   - ai/openai: tagger backed by an OpenAI-compatible chat API
//   - ai/mock: test double with injectable behavior
//
// Public constructors in ai/openai return interface types. The mock
// constructors return concrete types so tests can inject behavior and
// inspect call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithModel("gpt-4o-mini"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	tokens, err := provider.Tagger().Tag(ctx, "Armstrong walked on the moon.")
package ai
