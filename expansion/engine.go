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

package expansion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/lexicon"
)

// Engine expands term lists through a lexical graph.
// An Engine holds no per-call state and is safe for concurrent use.
type Engine struct {
	graph  lexicon.Graph
	config Config
	logger *slog.Logger

	// observe, when set, receives the terms left after each round's filter.
	observe func(round int, terms []core.WeightedTerm)
}

// Option configures an Engine.
type Option func(*Engine) error

// WithConfig replaces the whole configuration.
func WithConfig(config Config) Option {
	return func(e *Engine) error {
		config.Relations = slices.Clone(config.Relations)
		e.config = config
		return nil
	}
}

// WithKnowledgeLimit sets the weight threshold.
func WithKnowledgeLimit(limit float64) Option {
	return func(e *Engine) error {
		e.config.KnowledgeLimit = limit
		return nil
	}
}

// WithMaxRounds sets the round cap.
func WithMaxRounds(rounds int) Option {
	return func(e *Engine) error {
		e.config.MaxRounds = rounds
		return nil
	}
}

// WithRelations sets the relation exploration order.
func WithRelations(kinds ...core.RelationKind) Option {
	return func(e *Engine) error {
		e.config.Relations = slices.Clone(kinds)
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// NewEngine creates an expansion engine over graph.
func NewEngine(graph lexicon.Graph, opts ...Option) (*Engine, error) {
	if graph == nil {
		return nil, ErrGraphRequired
	}

	e := &Engine{
		graph:  graph,
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if err := e.config.Validate(); err != nil {
		return nil, err
	}
	e.logger = e.logger.With("component", "expansion")
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	c := e.config
	c.Relations = slices.Clone(c.Relations)
	return c
}

// Expand returns terms followed by the lemmas reached through the graph,
// in insertion order and in lexicon.NormalizeLemma form, with every term heavier than the knowledge limit removed.
func (e *Engine) Expand(ctx context.Context, terms []string, pos core.POS) ([]string, error) {
	weighted, err := e.ExpandWeighted(ctx, terms, pos)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(weighted))
	for i, wt := range weighted {
		out[i] = wt.Lemma
	}
	return out, nil
}

// ExpandWeighted is Expand with each term's weight.
func (e *Engine) ExpandWeighted(ctx context.Context, terms []string, pos core.POS) ([]core.WeightedTerm, error) {
	if err := core.ValidatePOS(pos); err != nil {
		return nil, err
	}

	s := newState(terms)
	if len(s.terms) == 0 {
		return nil, nil
	}

	for round := 1; ; round++ {
		if round > e.config.MaxRounds {
			return nil, fmt.Errorf("%w after %d rounds (%s, %d terms)", ErrNotConverged, e.config.MaxRounds, pos, len(s.terms))
		}

		for s.cursor < len(s.terms) {
			if err := e.expandTerm(ctx, s, s.terms[s.cursor], pos); err != nil {
				return nil, err
			}
			s.cursor++
		}

		if err := e.resolve(ctx, s); err != nil {
			return nil, err
		}

		s.filter(e.config.KnowledgeLimit)
		if e.observe != nil {
			e.observe(round, slices.Clone(s.terms))
		}

		converged := s.converged()
		e.logger.Debug("expansion round",
			"pos", pos.String(),
			"round", round,
			"terms", len(s.terms),
			"cursor", s.cursor,
			"concepts", len(s.queue),
			"converged", converged)
		if converged {
			break
		}
	}

	return s.terms, nil
}

// ExpandChain expands the nouns and verbs of a chain independently.
func (e *Engine) ExpandChain(ctx context.Context, chain core.DocumentChain) (core.DocumentChain, error) {
	var out core.DocumentChain
	for _, pos := range []core.POS{core.POSNoun, core.POSVerb} {
		expanded, err := e.Expand(ctx, chain.Terms(pos), pos)
		if err != nil {
			return core.DocumentChain{}, fmt.Errorf("expand %s: %w", pos, err)
		}
		out = out.WithTerms(pos, expanded)
	}
	return out, nil
}

// expandTerm queues every unvisited concept related to the term's primary concept.
func (e *Engine) expandTerm(ctx context.Context, s *state, term core.WeightedTerm, pos core.POS) error {
	id, ok, err := e.graph.PrimaryConcept(ctx, term.Lemma, pos)
	if err != nil {
		return fmt.Errorf("lookup %q: %w", term.Lemma, err)
	}
	if !ok {
		return nil
	}

	var queued []core.ID
	pending := make(map[core.ID]struct{})
	for _, kind := range e.config.Relations {
		var related []core.ID
		if kind == core.RelationSelf {
			related = []core.ID{id}
		} else {
			related, err = e.graph.RelatedConcepts(ctx, id, kind)
			if err != nil {
				return fmt.Errorf("relations %s of %q: %w", kind, term.Lemma, err)
			}
		}
		for _, rid := range related {
			if _, done := s.visited[rid]; done {
				continue
			}
			if _, dup := pending[rid]; dup {
				continue
			}
			pending[rid] = struct{}{}
			queued = append(queued, rid)
		}
	}

	weight := term.Weight * len(queued)
	for _, rid := range queued {
		s.visited[rid] = struct{}{}
		s.queue = append(s.queue, queuedConcept{id: rid, weight: weight})
	}
	return nil
}

// resolve appends the members of every concept queued since the last resolution.
func (e *Engine) resolve(ctx context.Context, s *state) error {
	for ; s.resolved < len(s.queue); s.resolved++ {
		qc := s.queue[s.resolved]
		members, err := e.graph.Members(ctx, qc.id)
		if err != nil {
			return fmt.Errorf("members of concept %d: %w", qc.id, err)
		}
		weight := qc.weight * len(members)
		for _, lemma := range members {
			s.add(lemma, weight)
		}
	}
	return nil
}
