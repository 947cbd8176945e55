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
	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/lexicon"
)

type queuedConcept struct {
	id     core.ID
	weight int
}

// state is the accumulator of a single Expand call.
type state struct {
	terms  []core.WeightedTerm
	cursor int

	// seen holds every lemma ever added, including filtered ones, so a
	// dropped lemma is never re-added.
	seen map[string]struct{}

	visited  map[core.ID]struct{}
	queue    []queuedConcept
	resolved int

	history int
}

func newState(terms []string) *state {
	s := &state{
		terms:   make([]core.WeightedTerm, 0, len(terms)),
		seen:    make(map[string]struct{}, len(terms)),
		visited: make(map[core.ID]struct{}),
	}
	for _, lemma := range terms {
		s.add(lemma, 1)
	}
	return s
}

// add appends lemma in its index form unless it was seen before.
func (s *state) add(lemma string, weight int) {
	lemma = lexicon.NormalizeLemma(lemma)
	if lemma == "" {
		return
	}
	if _, dup := s.seen[lemma]; dup {
		return
	}
	s.seen[lemma] = struct{}{}
	s.terms = append(s.terms, core.WeightedTerm{Lemma: lemma, Weight: weight})
}

// filter drops terms heavier than limit, keeping the cursor on the same
// unprocessed term.
func (s *state) filter(limit float64) {
	kept := s.terms[:0]
	cursor := s.cursor
	for i, wt := range s.terms {
		if float64(wt.Weight) > limit {
			if i < s.cursor {
				cursor--
			}
			continue
		}
		kept = append(kept, wt)
	}
	s.terms = kept
	s.cursor = cursor
}

// converged reports whether expansion should stop. With more than two
// unprocessed terms it continues while their minimum weight keeps changing.
func (s *state) converged() bool {
	if len(s.terms)-s.cursor <= 2 {
		return true
	}
	current := s.terms[s.cursor].Weight
	for _, wt := range s.terms[s.cursor+1:] {
		current = min(current, wt.Weight)
	}
	if current == s.history {
		return true
	}
	s.history = current
	return false
}
