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
	"fmt"
	"math"
	"slices"

	"github.com/poiesic/topicrank/core"
)

const (
	// DefaultMaxRounds bounds the number of expansion rounds.
	DefaultMaxRounds = 64
)

// DefaultKnowledgeLimit is the weight beyond which expanded terms are discarded (e^4.2).
var DefaultKnowledgeLimit = math.Exp(4.2)

// Config holds expansion parameters.
type Config struct {
	// KnowledgeLimit is the maximum weight a term may carry and stay in the chain.
	KnowledgeLimit float64
	// MaxRounds is the number of rounds after which expansion fails with ErrNotConverged.
	MaxRounds int
	// Relations is the order in which relations are explored. It affects output order and weights.
	Relations []core.RelationKind
}

// DefaultConfig returns the standard expansion configuration.
func DefaultConfig() Config {
	return Config{
		KnowledgeLimit: DefaultKnowledgeLimit,
		MaxRounds:      DefaultMaxRounds,
		Relations:      slices.Clone(core.DefaultRelationOrder),
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if !(c.KnowledgeLimit >= 1) || math.IsInf(c.KnowledgeLimit, 0) {
		return fmt.Errorf("%w: knowledge limit must be a finite value >= 1, got %v", ErrInvalidConfig, c.KnowledgeLimit)
	}
	if c.MaxRounds <= 0 {
		return fmt.Errorf("%w: max rounds must be positive, got %d", ErrInvalidConfig, c.MaxRounds)
	}
	if len(c.Relations) == 0 {
		return fmt.Errorf("%w: at least one relation is required", ErrInvalidConfig)
	}
	seen := make(map[core.RelationKind]struct{}, len(c.Relations))
	for _, kind := range c.Relations {
		if _, err := core.ParseRelationKind(kind.String()); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if _, dup := seen[kind]; dup {
			return fmt.Errorf("%w: relation %s listed twice", ErrInvalidConfig, kind)
		}
		seen[kind] = struct{}{}
	}
	return nil
}
