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

package lexicon

import (
	"context"
	"time"

	"github.com/poiesic/topicrank/core"
)

// Graph is the read side of a lexical knowledge base.
// Implementations must be safe for concurrent use once loaded.
type Graph interface {
	// PrimaryConcept returns the first-ranked concept of lemma for the given POS.
	// A lemma the knowledge base does not know is not an error: ok is false.
	PrimaryConcept(ctx context.Context, lemma string, pos core.POS) (id core.ID, ok bool, err error)

	// RelatedConcepts returns the concepts reachable from id through kind,
	// in stored order. RelationSelf yields id itself when the concept exists.
	// Unknown concepts yield an empty result.
	RelatedConcepts(ctx context.Context, id core.ID, kind core.RelationKind) ([]core.ID, error)

	// Members returns the member lemmas of a concept in stored order.
	// Unknown concepts yield an empty result.
	Members(ctx context.Context, id core.ID) ([]string, error)

	// Close releases resources held by the graph.
	Close() error
}

// Loader writes lexical data. It is only used while importing.
type Loader interface {
	// AddConcepts stores concepts, replacing any existing concept with the same ID.
	// Concepts with ID 0 receive a content-based ID derived from their POS and members.
	AddConcepts(ctx context.Context, concepts ...*core.Concept) error

	// AddSenses stores lemma index entries, replacing existing entries for the same lemma and POS.
	AddSenses(ctx context.Context, senses ...*core.Sense) error

	// Close releases resources held by the loader.
	Close() error
}

// Store is a knowledge base that can be both loaded and queried.
type Store interface {
	Graph
	Loader
}

// Checkpoint records how much of an import source has been loaded.
type Checkpoint struct {
	Source    string
	Concepts  uint64
	Senses    uint64
	UpdatedAt time.Time
}

// CheckpointStore persists import checkpoints so interrupted imports can resume.
type CheckpointStore interface {
	// SaveCheckpoint persists a checkpoint for its source.
	SaveCheckpoint(ctx context.Context, checkpoint *Checkpoint) error

	// LoadCheckpoint returns the checkpoint for source, or nil if none exists.
	LoadCheckpoint(ctx context.Context, source string) (*Checkpoint, error)
}
