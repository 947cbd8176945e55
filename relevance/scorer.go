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
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/topicrank/core"
)

// Score is the relevance of one document to the query.
// Defined is false when a denominator of the measure was zero.
type Score struct {
	Value   float64
	Defined bool
}

// Undefined is the score of a degenerate comparison.
var Undefined = Score{}

// String formats the score the way the score files are written: "NaN"
// when undefined, otherwise the shortest decimal with at least one
// fractional digit. Magnitudes below 1e-3 or from 1e7 up use E notation
// with an unpadded exponent, as in "5.0E-4".
func (s Score) String() string {
	if !s.Defined {
		return "NaN"
	}
	if abs := math.Abs(s.Value); abs != 0 && (abs < 1e-3 || abs >= 1e7) {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(s.Value, 'E', -1, 64), "E")
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		e, _ := strconv.Atoi(exp)
		return mantissa + "E" + strconv.Itoa(e)
	}
	out := strconv.FormatFloat(s.Value, 'f', -1, 64)
	if math.Trunc(s.Value) == s.Value {
		out += ".0"
	}
	return out
}

// Result pairs a score with the source it was computed for.
type Result struct {
	Source string
	Score  Score
}

// Scorer compares expanded query chains against document chains.
type Scorer struct {
	logger *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) error {
		s.logger = logger
		return nil
	}
}

// NewScorer creates a Scorer.
func NewScorer(opts ...Option) (*Scorer, error) {
	s := &Scorer{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "relevance")
	return s, nil
}

// Score returns max(|qN ∩ dN| / min(|qN|, |dN|), |qV ∩ dV| / |qV ∪ dV|).
// Chains are compared as sets. If either denominator is zero the score is undefined.
func (s *Scorer) Score(query, doc core.DocumentChain) Score {
	qn, dn := dedupe(query.Nouns), dedupe(doc.Nouns)
	qv, dv := dedupe(query.Verbs), dedupe(doc.Verbs)

	nounDen := min(len(qn), len(dn))
	verbInter := intersection(qv, dv)
	verbDen := len(qv) + len(dv) - verbInter
	if nounDen == 0 || verbDen == 0 {
		return Undefined
	}

	nounRatio := float64(intersection(qn, dn)) / float64(nounDen)
	verbRatio := float64(verbInter) / float64(verbDen)
	return Score{Value: math.Max(nounRatio, verbRatio), Defined: true}
}

// ScoreAll scores every document, preserving document order.
func (s *Scorer) ScoreAll(query core.DocumentChain, docs []core.DocumentChain) []Score {
	scores := make([]Score, len(docs))
	undefined := 0
	for i, doc := range docs {
		scores[i] = s.Score(query, doc)
		if !scores[i].Defined {
			undefined++
		}
	}
	if undefined > 0 {
		s.logger.Debug("undefined scores", "documents", len(docs), "undefined", undefined)
	}
	return scores
}

func dedupe(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

func intersection(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}

// QueryChain unions query chains per POS, keeping first-seen order and dropping duplicates.
func QueryChain(chains ...core.DocumentChain) core.DocumentChain {
	var out core.DocumentChain
	nouns := make(map[string]struct{})
	verbs := make(map[string]struct{})
	for _, c := range chains {
		out.Nouns = appendNew(out.Nouns, nouns, c.Nouns)
		out.Verbs = appendNew(out.Verbs, verbs, c.Verbs)
	}
	return out
}

func appendNew(dst []string, seen map[string]struct{}, terms []string) []string {
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		dst = append(dst, t)
	}
	return dst
}
