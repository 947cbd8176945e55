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

package topicrank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/topicrank/config"
	"github.com/poiesic/topicrank/lexicon"
	"github.com/poiesic/topicrank/lexicon/badger"
	lexneo4j "github.com/poiesic/topicrank/lexicon/neo4j"
)

// KnowledgeBase is an opened lexical store with its checkpoint store.
type KnowledgeBase struct {
	Store       lexicon.Store
	Checkpoints lexicon.CheckpointStore
	backend     *badger.Backend
}

// OpenKnowledgeBase opens the configured backend. Badger knowledge bases are
// opened read-only unless writable is set; a read-only open requires the
// directory to exist.
func OpenKnowledgeBase(ctx context.Context, cfg *config.Config, writable bool, logger *slog.Logger) (*KnowledgeBase, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Lexicon.Backend {
	case config.BackendNeo4j:
		graph, err := lexneo4j.Open(ctx, cfg.Neo4jConfig(), logger)
		if err != nil {
			return nil, err
		}
		if writable {
			graph.EnsureSchema(ctx)
		}
		return &KnowledgeBase{Store: graph, Checkpoints: graph}, nil

	case config.BackendBadger:
		opts := []badger.BackendOption{badger.WithBackendLogger(logger)}
		if !writable {
			opts = append(opts, badger.ReadOnly())
		}
		backend, err := badger.OpenBackend(cfg.Lexicon.Path, false, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", lexicon.ErrUnavailable, cfg.Lexicon.Path, err)
		}
		graph, err := badger.NewGraph(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
		return &KnowledgeBase{
			Store:       graph,
			Checkpoints: badger.NewCheckpointRepository(backend),
			backend:     backend,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown lexicon backend %q", config.ErrInvalidConfig, cfg.Lexicon.Backend)
	}
}

// Close closes the store and its backend.
func (kb *KnowledgeBase) Close() error {
	err := kb.Store.Close()
	if kb.backend != nil {
		err = errors.Join(err, kb.backend.Close())
	}
	return err
}
