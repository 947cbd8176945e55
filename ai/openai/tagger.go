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

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/topicrank/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Tagger implements ai.Tagger using OpenAI-compatible chat APIs.
type Tagger struct {
	client      llms.Model
	timeout     time.Duration
	maxAttempts int
	logger      *slog.Logger
}

// token is an internal type used for JSON unmarshaling.
// It matches the structure expected by the LLM.
type token struct {
	Text  string `json:"text"`
	Tag   string `json:"tag"`
	Lemma string `json:"lemma"`
}

// tagging is the wrapper structure for the LLM's JSON response.
type tagging struct {
	Tokens []token `json:"tokens"`
}

// newTagger is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTagger(config *ai.Config) (*Tagger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}
	return newTaggerWithModel(client, config), nil
}

func newTaggerWithModel(client llms.Model, config *ai.Config) *Tagger {
	return &Tagger{
		client:      client,
		timeout:     config.Timeout,
		maxAttempts: config.MaxAttempts,
		logger:      slog.Default().With("component", "openai-tagger"),
	}
}

// NewTagger creates a new tagger using the provided configuration.
//
// Returns ai.Tagger interface to enforce abstraction.
func NewTagger(config *ai.Config) (ai.Tagger, error) {
	return newTagger(config)
}

// Tag tags every word of sentence with a Penn Treebank tag and a lemma.
func (t *Tagger) Tag(ctx context.Context, sentence string) ([]ai.Token, error) {
	sentence = cleanSentence(sentence)
	if sentence == "" {
		return []ai.Token{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt())},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(sentence)},
		},
	}

	// Retry only malformed responses; transport errors go back to the caller.
	var result tagging
	var lastErr error
	for attempt := 0; attempt < t.maxAttempts; attempt++ {
		response, err := t.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			t.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			t.logger.Debug("no choices returned from model")
			return []ai.Token{}, nil
		}

		responseText := stripCodeFence(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		result = tagging{}
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			t.logger.Warn("error parsing tagger response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: after %d attempts: %w", ai.ErrMalformedResponse, t.maxAttempts, lastErr)
	}

	tokens := make([]ai.Token, 0, len(result.Tokens))
	for _, tok := range result.Tokens {
		text := strings.TrimSpace(tok.Text)
		if text == "" {
			continue
		}
		lemma := strings.ToLower(strings.TrimSpace(tok.Lemma))
		if lemma == "" {
			lemma = strings.ToLower(text)
		}
		tokens = append(tokens, ai.Token{
			Text:  text,
			Tag:   strings.ToUpper(strings.TrimSpace(tok.Tag)),
			Lemma: lemma,
		})
	}

	t.logger.Debug("tagged sentence", "tokens", len(tokens))
	return tokens, nil
}
