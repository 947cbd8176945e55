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

// Package cache provides a Redis read-through cache in front of a lexicon.Graph.
//
// Lookups that miss the knowledge base are cached too, so repeated unknown
// lemmas do not reach the backing store. Redis failures never fail a lookup;
// the cache logs them and falls through to the wrapped graph.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/lexicon"
	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "topicrank:lex"
	defaultTTL    = 24 * time.Hour
)

// missMarker is stored for lemmas the knowledge base does not know.
var missMarker = []byte{}

// Graph caches lookups of a wrapped graph in Redis.
type Graph struct {
	next   lexicon.Graph
	rdb    goredis.Cmdable
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

var _ lexicon.Graph = (*Graph)(nil)

// Option configures a cache Graph.
type Option func(*Graph) error

// WithPrefix sets the key prefix. Distinct knowledge bases sharing one Redis need distinct prefixes.
func WithPrefix(prefix string) Option {
	return func(g *Graph) error {
		if prefix == "" {
			return errors.New("prefix cannot be empty")
		}
		g.prefix = prefix
		return nil
	}
}

// WithTTL sets the expiry of cached entries. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(g *Graph) error {
		if ttl < 0 {
			return errors.New("ttl cannot be negative")
		}
		g.ttl = ttl
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) error {
		g.logger = logger
		return nil
	}
}

// New wraps next with a Redis cache.
func New(next lexicon.Graph, rdb goredis.Cmdable, opts ...Option) (*Graph, error) {
	if next == nil {
		return nil, errors.New("graph is required")
	}
	if rdb == nil {
		return nil, errors.New("redis client is required")
	}

	g := &Graph{
		next:   next,
		rdb:    rdb,
		prefix: defaultPrefix,
		ttl:    defaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	g.logger = g.logger.With("component", "lexicon_cache")
	return g, nil
}

// Dial connects to Redis at addr and verifies it answers a PING.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*goredis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("%w: missing redis address", lexicon.ErrUnavailable)
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: timeout,
	})

	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: redis ping: %w", lexicon.ErrUnavailable, err)
	}
	return rdb, nil
}

// Close closes the wrapped graph. The Redis client belongs to the caller.
func (g *Graph) Close() error {
	return g.next.Close()
}

// PrimaryConcept returns the cached primary concept of lemma.
func (g *Graph) PrimaryConcept(ctx context.Context, lemma string, pos core.POS) (core.ID, bool, error) {
	lemma = lexicon.NormalizeLemma(lemma)
	key := fmt.Sprintf("%s:pc:%s:%s", g.prefix, pos, lemma)
	if raw, hit := g.get(ctx, key); hit {
		if len(raw) == 0 {
			return 0, false, nil
		}
		if id, err := lexicon.UnmarshalID(raw); err == nil {
			return id, true, nil
		}
	}

	id, ok, err := g.next.PrimaryConcept(ctx, lemma, pos)
	if err != nil {
		return 0, false, err
	}
	if ok {
		g.set(ctx, key, lexicon.MarshalID(id))
	} else {
		g.set(ctx, key, missMarker)
	}
	return id, ok, nil
}

// RelatedConcepts returns the cached relation targets of id.
func (g *Graph) RelatedConcepts(ctx context.Context, id core.ID, kind core.RelationKind) ([]core.ID, error) {
	if kind == core.RelationSelf {
		return g.next.RelatedConcepts(ctx, id, kind)
	}

	key := fmt.Sprintf("%s:rel:%d:%s", g.prefix, id, kind)
	if raw, hit := g.get(ctx, key); hit {
		if ids, err := lexicon.UnmarshalIDs(raw); err == nil {
			return ids, nil
		}
	}

	ids, err := g.next.RelatedConcepts(ctx, id, kind)
	if err != nil {
		return nil, err
	}
	g.set(ctx, key, lexicon.MarshalIDs(ids))
	return ids, nil
}

// Members returns the cached member lemmas of id.
func (g *Graph) Members(ctx context.Context, id core.ID) ([]string, error) {
	key := fmt.Sprintf("%s:mem:%d", g.prefix, id)
	if raw, hit := g.get(ctx, key); hit {
		if members, err := lexicon.UnmarshalLemmas(raw); err == nil {
			return members, nil
		}
	}

	members, err := g.next.Members(ctx, id)
	if err != nil {
		return nil, err
	}
	g.set(ctx, key, lexicon.MarshalLemmas(members))
	return members, nil
}

func (g *Graph) get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := g.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			g.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (g *Graph) set(ctx context.Context, key string, value []byte) {
	if err := g.rdb.Set(ctx, key, value, g.ttl).Err(); err != nil {
		g.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
