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

package chaining

import (
	"log/slog"
	"slices"

	"github.com/poiesic/topicrank/core"
)

// Merger clusters per-sentence keyword sets into chains.
// A Merger is stateless and safe for concurrent use.
type Merger struct {
	logger *slog.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Merger) {
		m.logger = logger
	}
}

// NewMerger creates a Merger.
func NewMerger(opts ...Option) *Merger {
	m := &Merger{logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "chaining")
	return m
}

// Merge returns the dominant chain of a document, or an empty chain when
// there are no sentences.
func (m *Merger) Merge(sentences []core.SentenceFeatures) core.DocumentChain {
	chain, _ := m.Dominant(sentences)
	return chain
}

// Dominant returns the chain with the most nouns; ties go to the earliest chain.
// ok is false when sentences is empty.
func (m *Merger) Dominant(sentences []core.SentenceFeatures) (chain core.DocumentChain, ok bool) {
	clusters := m.Clusters(sentences)
	if len(clusters) == 0 {
		return core.DocumentChain{}, false
	}
	best := 0
	for i := 1; i < len(clusters); i++ {
		if len(clusters[i].Nouns) > len(clusters[best].Nouns) {
			best = i
		}
	}
	m.logger.Debug("dominant chain selected",
		"sentences", len(sentences),
		"chains", len(clusters),
		"index", best,
		"nouns", len(clusters[best].Nouns),
		"verbs", len(clusters[best].Verbs))
	return clusters[best], true
}

// Clusters partitions the sentences into chains. Two sentences end up in the
// same chain when they are connected through shared nouns or shared verbs.
//
// Chains are built eagerly: chain f absorbs the lowest-indexed other chain
// sharing a keyword with it, then rescans from the start; f advances only
// when no partner remains. Term order within a chain follows from this and
// is kept stable across releases.
func (m *Merger) Clusters(sentences []core.SentenceFeatures) []core.DocumentChain {
	chains := make([]core.DocumentChain, len(sentences))
	for i, s := range sentences {
		chains[i] = core.DocumentChain{
			Nouns: slices.Clone(s.Nouns),
			Verbs: slices.Clone(s.Verbs),
		}
	}

	// Every chain before f shares no keyword with any other chain, so a
	// partner always lies after f.
	for f := 0; f < len(chains); {
		o := partner(chains, f)
		if o < 0 {
			f++
			continue
		}
		chains[f].Nouns = union(chains[f].Nouns, chains[o].Nouns)
		chains[f].Verbs = union(chains[f].Verbs, chains[o].Verbs)
		chains = slices.Delete(chains, o, o+1)
	}
	return chains
}

// partner returns the lowest index o != f whose chain shares a noun or a verb with chain f, or -1.
func partner(chains []core.DocumentChain, f int) int {
	nouns := toSet(chains[f].Nouns)
	verbs := toSet(chains[f].Verbs)
	for o := range chains {
		if o == f {
			continue
		}
		if intersects(nouns, chains[o].Nouns) || intersects(verbs, chains[o].Verbs) {
			return o
		}
	}
	return -1
}

func toSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

func intersects(set map[string]struct{}, terms []string) bool {
	for _, t := range terms {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

// union appends the terms of b missing from a, preserving order.
func union(a, b []string) []string {
	set := toSet(a)
	for _, t := range b {
		if _, ok := set[t]; ok {
			continue
		}
		set[t] = struct{}{}
		a = append(a, t)
	}
	return a
}
