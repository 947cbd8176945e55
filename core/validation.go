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

package core

import "fmt"

// ValidateConcept validates a Concept according to domain rules.
//
// Validation rules:
//   - POS must be Noun or Verb
//   - Members must not be empty, contain empty lemmas, or repeat a lemma
//   - Relations must only use known relation kinds other than RelationSelf
//
// NOT validated:
//   - ID (0 is replaced by the repository with a content-based ID)
//   - that related concepts exist (dangling edges are skipped at lookup time)
func ValidateConcept(concept *Concept) error {
	if concept == nil {
		return fmt.Errorf("%w: concept is nil", ErrInvalidConcept)
	}

	if err := ValidatePOS(concept.POS); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, err)
	}

	if len(concept.Members) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrEmptyMembers)
	}

	if err := ValidateLemmas(concept.Members); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, err)
	}

	for kind := range concept.Relations {
		if kind == RelationSelf {
			return fmt.Errorf("%w: self relation is implicit", ErrInvalidConcept)
		}
		if _, ok := relationNames[kind]; !ok {
			return fmt.Errorf("%w: %w: %d", ErrInvalidConcept, ErrInvalidRelation, kind)
		}
	}

	return nil
}

// ValidateSense validates a lemma index entry.
func ValidateSense(sense *Sense) error {
	if sense == nil {
		return fmt.Errorf("%w: sense is nil", ErrInvalidSense)
	}
	if sense.Lemma == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSense, ErrEmptyLemma)
	}
	if err := ValidatePOS(sense.POS); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSense, err)
	}
	if len(sense.Concepts) == 0 {
		return fmt.Errorf("%w: no concepts for %q", ErrInvalidSense, sense.Lemma)
	}
	return nil
}

// ValidatePOS validates that a POS has a valid value.
func ValidatePOS(pos POS) error {
	if pos != POSNoun && pos != POSVerb {
		return fmt.Errorf("%w: value %d", ErrInvalidPOS, pos)
	}
	return nil
}

// ValidateLemmas checks that lemmas form a duplicate-free ordered set of non-empty strings.
func ValidateLemmas(lemmas []string) error {
	seen := make(map[string]struct{}, len(lemmas))
	for _, lemma := range lemmas {
		if lemma == "" {
			return ErrEmptyLemma
		}
		if _, dup := seen[lemma]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateLemma, lemma)
		}
		seen[lemma] = struct{}{}
	}
	return nil
}
