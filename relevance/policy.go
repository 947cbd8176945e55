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

package relevance

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPolicy indicates an unknown undefined-score policy.
var ErrInvalidPolicy = errors.New("invalid undefined-score policy")

// Policy decides what happens to undefined scores.
type Policy int

const (
	// PolicyNaN keeps undefined scores; they are written as NaN.
	PolicyNaN Policy = iota
	// PolicyZero turns undefined scores into 0.
	PolicyZero
	// PolicyExclude drops documents with undefined scores.
	PolicyExclude
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyNaN:
		return "nan"
	case PolicyZero:
		return "zero"
	case PolicyExclude:
		return "exclude"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name ("nan", "zero" or "exclude") into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "nan":
		return PolicyNaN, nil
	case "zero":
		return PolicyZero, nil
	case "exclude":
		return PolicyExclude, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, name)
	}
}

// ApplyPolicy returns results with undefined scores handled according to policy.
// Defined scores and the order of results are unchanged.
func ApplyPolicy(results []Result, policy Policy) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if !r.Score.Defined {
			switch policy {
			case PolicyZero:
				r.Score = Score{Value: 0, Defined: true}
			case PolicyExclude:
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
