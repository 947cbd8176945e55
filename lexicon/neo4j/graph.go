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

package neo4j

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/lexicon"
)

const (
	defaultUser        = "neo4j"
	defaultTimeout     = 10 * time.Second
	defaultMaxPoolSize = 50
)

// Config holds connection settings for a Neo4j knowledge base.
type Config struct {
	URI         string
	User        string
	Password    string
	Database    string
	Timeout     time.Duration
	MaxPoolSize int
}

// Graph implements lexicon.Store and lexicon.CheckpointStore on Neo4j.
//
// Concepts are (:LexConcept {id, pos, members}) nodes joined by
// [:LEX_RELATION {kind, rank}] edges. Lemma senses are (:LexSense {lemma, pos, concepts})
// nodes holding the ranked concept IDs.
type Graph struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

var (
	_ lexicon.Store           = (*Graph)(nil)
	_ lexicon.CheckpointStore = (*Graph)(nil)
)

// Open connects to Neo4j and verifies connectivity.
// An unreachable server is reported as lexicon.ErrUnavailable.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Graph, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, fmt.Errorf("%w: neo4j uri is required", lexicon.ErrUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.User == "" {
		cfg.User = defaultUser
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxPoolSize <= 0 {
		cfg.MaxPoolSize = defaultMaxPoolSize
	}

	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.MaxPoolSize
		c.SocketConnectTimeout = cfg.Timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: init driver: %w", err)
	}

	vctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("%w: neo4j verify connectivity: %w", lexicon.ErrUnavailable, err)
	}

	return &Graph{
		driver:   driver,
		database: cfg.Database,
		logger:   logger.With("component", "neo4j"),
	}, nil
}

// Close closes the driver.
func (g *Graph) Close() error {
	if g == nil || g.driver == nil {
		return nil
	}
	err := g.driver.Close(context.Background())
	g.driver = nil
	return err
}

// EnsureSchema creates the uniqueness constraints the lookups rely on.
// Failures are logged and ignored; restricted users may not create schema.
func (g *Graph) EnsureSchema(ctx context.Context) {
	session := g.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, stmt := range []string{
		`CREATE CONSTRAINT lex_concept_id IF NOT EXISTS FOR (c:LexConcept) REQUIRE c.id IS UNIQUE`,
		`CREATE CONSTRAINT lex_sense_key IF NOT EXISTS FOR (s:LexSense) REQUIRE (s.lemma, s.pos) IS UNIQUE`,
		`CREATE CONSTRAINT lex_checkpoint_source IF NOT EXISTS FOR (c:LexCheckpoint) REQUIRE c.source IS UNIQUE`,
	} {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			g.logger.Warn("neo4j schema init failed (continuing)", "error", err)
			continue
		}
		_, _ = res.Consume(ctx)
	}
}

// PrimaryConcept returns the first-ranked concept of lemma.
func (g *Graph) PrimaryConcept(ctx context.Context, lemma string, pos core.POS) (core.ID, bool, error) {
	if g.driver == nil {
		return 0, false, lexicon.ErrGraphClosed
	}
	out, err := g.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			`MATCH (s:LexSense {lemma: $lemma, pos: $pos}) RETURN s.concepts[0] AS id`,
			map[string]any{"lemma": lexicon.NormalizeLemma(lemma), "pos": pos.String()})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			return nil, res.Err()
		}
		v, _ := res.Record().Get("id")
		return v, nil
	})
	if err != nil {
		return 0, false, err
	}
	raw, ok := out.(int64)
	if !ok {
		return 0, false, nil
	}
	return core.ID(uint64(raw)), true, nil
}

// RelatedConcepts returns the targets of kind edges ordered by rank.
func (g *Graph) RelatedConcepts(ctx context.Context, id core.ID, kind core.RelationKind) ([]core.ID, error) {
	if g.driver == nil {
		return nil, lexicon.ErrGraphClosed
	}

	cypher := `MATCH (c:LexConcept {id: $id})-[r:LEX_RELATION {kind: $kind}]->(t:LexConcept)
RETURN t.id AS id ORDER BY r.rank`
	if kind == core.RelationSelf {
		cypher = `MATCH (c:LexConcept {id: $id}) RETURN c.id AS id`
	}

	out, err := g.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"id": int64(id), "kind": kind.String()})
		if err != nil {
			return nil, err
		}
		var ids []core.ID
		for res.Next(ctx) {
			v, _ := res.Record().Get("id")
			if raw, ok := v.(int64); ok {
				ids = append(ids, core.ID(uint64(raw)))
			}
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, err
	}
	ids, _ := out.([]core.ID)
	return ids, nil
}

// Members returns the member lemmas of id.
func (g *Graph) Members(ctx context.Context, id core.ID) ([]string, error) {
	if g.driver == nil {
		return nil, lexicon.ErrGraphClosed
	}
	out, err := g.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			`MATCH (c:LexConcept {id: $id}) RETURN c.members AS members`,
			map[string]any{"id": int64(id)})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			return nil, res.Err()
		}
		v, _ := res.Record().Get("members")
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return toStrings(out), nil
}

// AddConcepts upserts concepts and replaces their outgoing relation edges.
// Relation targets that are not yet loaded are created as placeholders.
func (g *Graph) AddConcepts(ctx context.Context, concepts ...*core.Concept) error {
	if g.driver == nil {
		return lexicon.ErrGraphClosed
	}

	nodes := make([]map[string]any, 0, len(concepts))
	edges := make([]map[string]any, 0, len(concepts))
	for _, c := range concepts {
		if err := core.ValidateConcept(c); err != nil {
			return err
		}
		if c.Id == 0 {
			c.Id = core.IDFromContent(c.POS.String() + ":" + strings.Join(c.Members, ","))
		}
		nodes = append(nodes, map[string]any{
			"id":      int64(c.Id),
			"pos":     c.POS.String(),
			"members": c.Members,
		})
		for _, kind := range core.DefaultRelationOrder {
			for rank, target := range c.Relations[kind] {
				edges = append(edges, map[string]any{
					"from": int64(c.Id),
					"to":   int64(target),
					"kind": kind.String(),
					"rank": int64(rank),
				})
			}
		}
	}

	return g.write(ctx, func(tx neo4j.ManagedTransaction) error {
		if err := run(ctx, tx, `
UNWIND $nodes AS n
MERGE (c:LexConcept {id: n.id})
SET c.pos = n.pos, c.members = n.members
WITH c
OPTIONAL MATCH (c)-[r:LEX_RELATION]->()
DELETE r
`, map[string]any{"nodes": nodes}); err != nil {
			return err
		}
		if len(edges) == 0 {
			return nil
		}
		return run(ctx, tx, `
UNWIND $edges AS e
MATCH (a:LexConcept {id: e.from})
MERGE (b:LexConcept {id: e.to})
CREATE (a)-[:LEX_RELATION {kind: e.kind, rank: e.rank}]->(b)
`, map[string]any{"edges": edges})
	})
}

// AddSenses upserts lemma index entries.
func (g *Graph) AddSenses(ctx context.Context, senses ...*core.Sense) error {
	if g.driver == nil {
		return lexicon.ErrGraphClosed
	}

	rows := make([]map[string]any, 0, len(senses))
	for _, s := range senses {
		if err := core.ValidateSense(s); err != nil {
			return err
		}
		ids := make([]int64, len(s.Concepts))
		for i, id := range s.Concepts {
			ids[i] = int64(id)
		}
		rows = append(rows, map[string]any{
			"lemma":    lexicon.NormalizeLemma(s.Lemma),
			"pos":      s.POS.String(),
			"concepts": ids,
		})
	}

	return g.write(ctx, func(tx neo4j.ManagedTransaction) error {
		return run(ctx, tx, `
UNWIND $rows AS row
MERGE (s:LexSense {lemma: row.lemma, pos: row.pos})
SET s.concepts = row.concepts
`, map[string]any{"rows": rows})
	})
}

// SaveCheckpoint persists an import checkpoint.
func (g *Graph) SaveCheckpoint(ctx context.Context, checkpoint *lexicon.Checkpoint) error {
	if g.driver == nil {
		return lexicon.ErrGraphClosed
	}
	checkpoint.UpdatedAt = time.Now().UTC()
	return g.write(ctx, func(tx neo4j.ManagedTransaction) error {
		return run(ctx, tx, `
MERGE (c:LexCheckpoint {source: $source})
SET c.concepts = $concepts, c.senses = $senses, c.updated_at = $updated_at
`, map[string]any{
			"source":     checkpoint.Source,
			"concepts":   int64(checkpoint.Concepts),
			"senses":     int64(checkpoint.Senses),
			"updated_at": checkpoint.UpdatedAt.Format(time.RFC3339Nano),
		})
	})
}

// LoadCheckpoint returns the checkpoint for source, or nil if none exists.
func (g *Graph) LoadCheckpoint(ctx context.Context, source string) (*lexicon.Checkpoint, error) {
	if g.driver == nil {
		return nil, lexicon.ErrGraphClosed
	}
	out, err := g.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			`MATCH (c:LexCheckpoint {source: $source}) RETURN c.concepts AS concepts, c.senses AS senses, c.updated_at AS updated_at`,
			map[string]any{"source": source})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			return nil, res.Err()
		}
		rec := res.Record()
		checkpoint := &lexicon.Checkpoint{Source: source}
		if v, ok := rec.Get("concepts"); ok {
			n, _ := v.(int64)
			checkpoint.Concepts = uint64(n)
		}
		if v, ok := rec.Get("senses"); ok {
			n, _ := v.(int64)
			checkpoint.Senses = uint64(n)
		}
		if v, ok := rec.Get("updated_at"); ok {
			if s, ok := v.(string); ok {
				checkpoint.UpdatedAt, _ = time.Parse(time.RFC3339Nano, s)
			}
		}
		return checkpoint, nil
	})
	if err != nil {
		return nil, err
	}
	checkpoint, _ := out.(*lexicon.Checkpoint)
	return checkpoint, nil
}

func (g *Graph) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return g.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: g.database,
	})
}

func (g *Graph) read(ctx context.Context, fn func(tx neo4j.ManagedTransaction) (any, error)) (any, error) {
	session := g.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)
	return session.ExecuteRead(ctx, fn)
}

func (g *Graph) write(ctx context.Context, fn func(tx neo4j.ManagedTransaction) error) error {
	session := g.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(tx)
	})
	return err
}

func run(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) error {
	res, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

func toStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// IsUnavailable reports whether err means the server could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, lexicon.ErrUnavailable)
}
