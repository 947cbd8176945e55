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

// WithTimeout bounds every call on g with its own deadline.
// A non-positive timeout returns g unchanged.
func WithTimeout(g Graph, timeout time.Duration) Graph {
	if timeout <= 0 {
		return g
	}
	return &timeoutGraph{next: g, timeout: timeout}
}

type timeoutGraph struct {
	next    Graph
	timeout time.Duration
}

var _ Graph = (*timeoutGraph)(nil)

func (g *timeoutGraph) PrimaryConcept(ctx context.Context, lemma string, pos core.POS) (core.ID, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.PrimaryConcept(ctx, lemma, pos)
}

func (g *timeoutGraph) RelatedConcepts(ctx context.Context, id core.ID, kind core.RelationKind) ([]core.ID, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.RelatedConcepts(ctx, id, kind)
}

func (g *timeoutGraph) Members(ctx context.Context, id core.ID) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.Members(ctx, id)
}

func (g *timeoutGraph) Close() error {
	return g.next.Close()
}
