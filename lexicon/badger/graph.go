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

package badger

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/lexicon"
)

// Graph implements lexicon.Store for BadgerDB.
type Graph struct {
	backend *Backend
}

var _ lexicon.Store = (*Graph)(nil)

// NewGraph creates a Graph over an open backend.
// The graph does not own the backend; closing the graph leaves it open.
func NewGraph(backend *Backend) (*Graph, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &Graph{backend: backend}, nil
}

// Close releases resources. Graph has no resources of its own to release.
func (g *Graph) Close() error {
	return nil
}

// PrimaryConcept returns the first concept listed for lemma in the sense index.
func (g *Graph) PrimaryConcept(ctx context.Context, lemma string, pos core.POS) (core.ID, bool, error) {
	sense, err := g.GetSense(ctx, lemma, pos)
	if err != nil || sense == nil || len(sense.Concepts) == 0 {
		return 0, false, err
	}
	return sense.Concepts[0], true, nil
}

// RelatedConcepts returns the stored relation targets of id.
func (g *Graph) RelatedConcepts(ctx context.Context, id core.ID, kind core.RelationKind) ([]core.ID, error) {
	concept, err := g.GetConcept(ctx, id)
	if err != nil || concept == nil {
		return nil, err
	}
	return concept.Related(kind), nil
}

// Members returns the member lemmas of id.
func (g *Graph) Members(ctx context.Context, id core.ID) ([]string, error) {
	concept, err := g.GetConcept(ctx, id)
	if err != nil || concept == nil {
		return nil, err
	}
	return concept.Members, nil
}

// GetConcept retrieves a single concept by ID.
// Returns nil, nil if the concept doesn't exist.
func (g *Graph) GetConcept(ctx context.Context, id core.ID) (*core.Concept, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.backend.IsClosed() {
		return nil, lexicon.ErrGraphClosed
	}

	var result *core.Concept
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readConcept(tx, makeConceptKey(id))
		return err
	}, false)
	return result, err
}

// GetSense retrieves the lemma index entry for lemma and pos.
// Returns nil, nil if the lemma is unknown.
func (g *Graph) GetSense(ctx context.Context, lemma string, pos core.POS) (*core.Sense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.backend.IsClosed() {
		return nil, lexicon.ErrGraphClosed
	}
	var result *core.Sense
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readSense(tx, makeSenseKey(lexicon.NormalizeLemma(lemma), pos))
		return err
	}, false)
	return result, err
}

// AddConcepts adds one or more concepts to storage.
func (g *Graph) AddConcepts(ctx context.Context, concepts ...*core.Concept) error {
	for _, concept := range concepts {
		if err := core.ValidateConcept(concept); err != nil {
			return err
		}
		// Use content-based ID if not set
		if concept.Id == 0 {
			concept.Id = core.IDFromContent(concept.POS.String() + ":" + strings.Join(concept.Members, ","))
		}
	}

	return g.backend.WriteBatch(func(wb *badger.WriteBatch) error {
		for _, concept := range concepts {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := wb.Set(makeConceptKey(concept.Id), lexicon.MarshalConcept(concept)); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddSenses adds lemma index entries.
func (g *Graph) AddSenses(ctx context.Context, senses ...*core.Sense) error {
	for _, sense := range senses {
		if err := core.ValidateSense(sense); err != nil {
			return err
		}
	}

	return g.backend.WriteBatch(func(wb *badger.WriteBatch) error {
		for _, sense := range senses {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := makeSenseKey(lexicon.NormalizeLemma(sense.Lemma), sense.POS)
			if err := wb.Set(key, lexicon.MarshalSense(sense)); err != nil {
				return err
			}
		}
		return nil
	})
}

// CountConcepts returns the number of stored concepts.
func (g *Graph) CountConcepts(ctx context.Context) (int, error) {
	return g.countPrefix(ctx, []byte(conceptPrefix+":"))
}

// CountSenses returns the number of stored lemma index entries.
func (g *Graph) CountSenses(ctx context.Context) (int, error) {
	return g.countPrefix(ctx, []byte(sensePrefix+":"))
}

func (g *Graph) countPrefix(ctx context.Context, prefix []byte) (int, error) {
	count := 0
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !bytes.HasPrefix(iter.Item().Key(), prefix) {
				break
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// readConcept reads a concept from the transaction.
func readConcept(tx *badger.Txn, key []byte) (*core.Concept, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var concept *core.Concept
	err = item.Value(func(val []byte) error {
		var err error
		concept, err = lexicon.UnmarshalConcept(val)
		return err
	})
	return concept, err
}

// readSense reads a lemma index entry from the transaction.
func readSense(tx *badger.Txn, key []byte) (*core.Sense, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var sense *core.Sense
	err = item.Value(func(val []byte) error {
		var err error
		sense, err = lexicon.UnmarshalSense(val)
		return err
	})
	return sense, err
}
