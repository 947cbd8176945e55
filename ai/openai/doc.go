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

// Package openai provides the ai.Tagger implementation for OpenAI-compatible APIs.
//
// The tagger uses langchaingo to talk to OpenAI or any compatible server
// (Ollama, LocalAI, vLLM). The model is asked for a JSON token list in
// JSON mode; malformed responses are repaired where possible and retried
// up to Config.MaxAttempts times.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithModel("qwen2.5:3b"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	tokens, err := provider.Tagger().Tag(ctx, "Armstrong walked on the moon.")
package openai
