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

package features

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/poiesic/topicrank/ai"
	"github.com/poiesic/topicrank/core"
)

// Penn Treebank tag prefixes for the two parts of speech kept.
const (
	NounTagPrefix = "NN"
	VerbTagPrefix = "VB"
)

// ErrTaggerRequired indicates that no tagger was supplied.
var ErrTaggerRequired = errors.New("tagger is required")

// Extractor turns sentences into noun and verb lemma sets.
type Extractor struct {
	tagger    ai.Tagger
	stopWords StopWords
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithStopWords replaces the default stop-word list.
func WithStopWords(words StopWords) Option {
	return func(e *Extractor) error {
		e.stopWords = words
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		e.logger = logger
		return nil
	}
}

// NewExtractor creates an Extractor that tags sentences with tagger.
func NewExtractor(tagger ai.Tagger, opts ...Option) (*Extractor, error) {
	if tagger == nil {
		return nil, ErrTaggerRequired
	}
	e := &Extractor{
		tagger:    tagger,
		stopWords: DefaultStopWords(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "features")
	return e, nil
}

// Sentence tags one sentence and returns its features.
func (e *Extractor) Sentence(ctx context.Context, sentence string) (core.SentenceFeatures, error) {
	tokens, err := e.tagger.Tag(ctx, sentence)
	if err != nil {
		return core.SentenceFeatures{}, fmt.Errorf("tagging sentence: %w", err)
	}
	return FromTokens(tokens, e.stopWords), nil
}

// FromTokens keeps noun and verb lemmas that are not stop words.
// A lemma appears at most once per POS, in first-seen order.
func FromTokens(tokens []ai.Token, stop StopWords) core.SentenceFeatures {
	var f core.SentenceFeatures
	nouns := make(map[string]struct{})
	verbs := make(map[string]struct{})

	for _, tok := range tokens {
		if stop.Contains(tok.Text) {
			continue
		}
		lemma := normalizeLemma(tok.Lemma)
		if lemma == "" {
			lemma = normalizeLemma(tok.Text)
		}
		if lemma == "" || stop.Contains(lemma) {
			continue
		}

		switch {
		case strings.HasPrefix(tok.Tag, NounTagPrefix):
			if _, ok := nouns[lemma]; !ok {
				nouns[lemma] = struct{}{}
				f.Nouns = append(f.Nouns, lemma)
			}
		case strings.HasPrefix(tok.Tag, VerbTagPrefix):
			if _, ok := verbs[lemma]; !ok {
				verbs[lemma] = struct{}{}
				f.Verbs = append(f.Verbs, lemma)
			}
		}
	}
	return f
}

// normalizeLemma lowercases, joins words with underscores and rejects
// lemmas without a letter or digit.
func normalizeLemma(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), "_")
	if strings.IndexFunc(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
		return ""
	}
	return s
}
