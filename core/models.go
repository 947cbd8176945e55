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

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is an opaque identifier for a lexical concept (synset).
// It is generated using content-based hashing so imports are repeatable.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// POS is the coarse part-of-speech class of a term.
type POS int

const (
	// POSNoun marks nouns.
	POSNoun POS = iota + 1
	// POSVerb marks verbs.
	POSVerb
)

// String returns the record label for the POS ("NOUN" or "VERB").
func (p POS) String() string {
	switch p {
	case POSNoun:
		return "NOUN"
	case POSVerb:
		return "VERB"
	default:
		return fmt.Sprintf("POS(%d)", int(p))
	}
}

// ParsePOS converts a record label into a POS.
// Labels are matched exactly; anything other than NOUN or VERB is rejected.
func ParsePOS(label string) (POS, error) {
	switch label {
	case "NOUN":
		return POSNoun, nil
	case "VERB":
		return POSVerb, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPOS, label)
	}
}

// Term is a lemma tagged with its part of speech.
type Term struct {
	Lemma string
	POS   POS
}

// WeightedTerm is a lemma paired with its semantic distance from the seed terms.
// Larger weights mean a more tenuous relation.
type WeightedTerm struct {
	Lemma  string
	Weight int
}

// RelationKind identifies a lexical relation between concepts.
type RelationKind int

const (
	// RelationSelf refers to the concept itself (its synonyms).
	RelationSelf RelationKind = iota + 1
	RelationHypernym
	RelationHyponym
	RelationHolonymMember
	RelationHolonymPart
	RelationHolonymSubstance
	RelationMeronymMember
	RelationMeronymPart
	RelationMeronymSubstance
)

// DefaultRelationOrder is the order in which relations are explored during expansion.
// Changing it changes the output ordering and weights.
var DefaultRelationOrder = []RelationKind{
	RelationSelf,
	RelationHypernym,
	RelationHyponym,
	RelationHolonymMember,
	RelationHolonymPart,
	RelationHolonymSubstance,
	RelationMeronymMember,
	RelationMeronymPart,
	RelationMeronymSubstance,
}

var relationNames = map[RelationKind]string{
	RelationSelf:             "self",
	RelationHypernym:         "hypernym",
	RelationHyponym:          "hyponym",
	RelationHolonymMember:    "holonym_member",
	RelationHolonymPart:      "holonym_part",
	RelationHolonymSubstance: "holonym_substance",
	RelationMeronymMember:    "meronym_member",
	RelationMeronymPart:      "meronym_part",
	RelationMeronymSubstance: "meronym_substance",
}

// String returns the snake_case name of the relation.
func (k RelationKind) String() string {
	if name, ok := relationNames[k]; ok {
		return name
	}
	return fmt.Sprintf("relation(%d)", int(k))
}

// ParseRelationKind converts a relation name into a RelationKind.
func ParseRelationKind(name string) (RelationKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, n := range relationNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRelation, name)
}

// Concept is a lexical sense (synset) with its member lemmas and outgoing relations.
// RelationSelf is implicit and never stored in Relations.
type Concept struct {
	Id        ID
	POS       POS
	Members   []string
	Relations map[RelationKind][]ID
}

// Related returns the concepts reachable through kind, in stored order.
func (c *Concept) Related(kind RelationKind) []ID {
	if kind == RelationSelf {
		return []ID{c.Id}
	}
	return c.Relations[kind]
}

// Sense is the lemma index entry of a Term. Concepts are ordered by
// sense rank, so Concepts[0] is the primary concept of the lemma.
type Sense struct {
	Term
	Concepts []ID
}

// SentenceFeatures holds the keyword sets of one sentence.
// Both slices are ordered and duplicate-free.
type SentenceFeatures struct {
	Nouns []string
	Verbs []string
}

// IsEmpty reports whether the sentence carries no keywords.
func (s SentenceFeatures) IsEmpty() bool {
	return len(s.Nouns) == 0 && len(s.Verbs) == 0
}

// DocumentChain is a merged cluster of sentence keywords.
type DocumentChain struct {
	Nouns []string
	Verbs []string
}

// Terms returns the chain's lemmas for the given POS.
func (d DocumentChain) Terms(pos POS) []string {
	switch pos {
	case POSNoun:
		return d.Nouns
	case POSVerb:
		return d.Verbs
	default:
		return nil
	}
}

// WithTerms returns a copy of the chain with the lemmas for pos replaced.
func (d DocumentChain) WithTerms(pos POS, terms []string) DocumentChain {
	switch pos {
	case POSNoun:
		d.Nouns = terms
	case POSVerb:
		d.Verbs = terms
	}
	return d
}
