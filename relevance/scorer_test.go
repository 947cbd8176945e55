package relevance

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/poiesic/topicrank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer()
	require.NoError(t, err)
	return s
}

func TestScore(t *testing.T) {
	s := newScorer(t)

	score := s.Score(
		core.DocumentChain{Nouns: []string{"a", "b", "c"}, Verbs: []string{"x"}},
		core.DocumentChain{Nouns: []string{"b", "c", "d"}, Verbs: []string{"x", "y"}},
	)
	require.True(t, score.Defined)
	assert.InDelta(t, 2.0/3.0, score.Value, 1e-9)
}

func TestScore_VerbRatioWins(t *testing.T) {
	score := newScorer(t).Score(
		core.DocumentChain{Nouns: []string{"a"}, Verbs: []string{"x", "y"}},
		core.DocumentChain{Nouns: []string{"b"}, Verbs: []string{"x", "y"}},
	)
	require.True(t, score.Defined)
	assert.Equal(t, 1.0, score.Value)
}

func TestScore_Undefined(t *testing.T) {
	s := newScorer(t)
	tests := []struct {
		name       string
		query, doc core.DocumentChain
	}{
		{
			name:  "document without nouns",
			query: core.DocumentChain{Nouns: []string{"a"}, Verbs: []string{"x"}},
			doc:   core.DocumentChain{Verbs: []string{"x"}},
		},
		{
			name:  "query without nouns",
			query: core.DocumentChain{Verbs: []string{"x"}},
			doc:   core.DocumentChain{Nouns: []string{"a"}, Verbs: []string{"x"}},
		},
		{
			name:  "no verbs on either side",
			query: core.DocumentChain{Nouns: []string{"a"}},
			doc:   core.DocumentChain{Nouns: []string{"a"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := s.Score(tt.query, tt.doc)
			assert.False(t, score.Defined)
			assert.Equal(t, "NaN", score.String())
		})
	}
}

func TestScore_Duplicates(t *testing.T) {
	score := newScorer(t).Score(
		core.DocumentChain{Nouns: []string{"a", "a", "b"}, Verbs: []string{"x"}},
		core.DocumentChain{Nouns: []string{"a"}, Verbs: []string{"y"}},
	)
	require.True(t, score.Defined)
	assert.Equal(t, 1.0, score.Value)
}

func TestScore_Bounds(t *testing.T) {
	s := newScorer(t)
	rng := rand.New(rand.NewSource(7))
	vocab := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("w%d", rng.Intn(12))
		}
		return out
	}

	for i := 0; i < 500; i++ {
		q := core.DocumentChain{Nouns: vocab(1 + rng.Intn(6)), Verbs: vocab(1 + rng.Intn(6))}
		d := core.DocumentChain{Nouns: vocab(1 + rng.Intn(6)), Verbs: vocab(1 + rng.Intn(6))}
		score := s.Score(q, d)
		require.True(t, score.Defined)
		assert.GreaterOrEqual(t, score.Value, 0.0)
		assert.LessOrEqual(t, score.Value, 1.0)
	}
}

func TestScoreAll_Order(t *testing.T) {
	query := core.DocumentChain{Nouns: []string{"moon"}, Verbs: []string{"orbit"}}
	scores := newScorer(t).ScoreAll(query, []core.DocumentChain{
		{Nouns: []string{"sun"}, Verbs: []string{"shine"}},
		{},
		{Nouns: []string{"moon"}, Verbs: []string{"orbit"}},
	})

	require.Len(t, scores, 3)
	assert.Equal(t, Score{Value: 0, Defined: true}, scores[0])
	assert.False(t, scores[1].Defined)
	assert.Equal(t, Score{Value: 1, Defined: true}, scores[2])
}

func TestScoreString(t *testing.T) {
	tests := []struct {
		score Score
		want  string
	}{
		{Score{Value: 1, Defined: true}, "1.0"},
		{Score{Value: 0, Defined: true}, "0.0"},
		{Score{Value: 0.5, Defined: true}, "0.5"},
		{Score{Value: 2.0 / 3.0, Defined: true}, "0.6666666666666666"},
		{Score{Value: 0.001, Defined: true}, "0.001"},
		{Score{Value: 0.0005, Defined: true}, "5.0E-4"},
		{Score{Value: 1.0 / 4096, Defined: true}, "2.44140625E-4"},
		{Score{Value: 1.5e-12, Defined: true}, "1.5E-12"},
		{Undefined, "NaN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.score.String())
	}
}

func TestApplyPolicy(t *testing.T) {
	results := []Result{
		{Source: "a", Score: Score{Value: 0.5, Defined: true}},
		{Source: "b", Score: Undefined},
		{Source: "c", Score: Score{Value: 1, Defined: true}},
	}

	nan := ApplyPolicy(results, PolicyNaN)
	assert.Equal(t, results, nan)

	zero := ApplyPolicy(results, PolicyZero)
	require.Len(t, zero, 3)
	assert.Equal(t, Score{Value: 0, Defined: true}, zero[1].Score)
	assert.False(t, results[1].Score.Defined, "input must not be modified")

	excluded := ApplyPolicy(results, PolicyExclude)
	require.Len(t, excluded, 2)
	assert.Equal(t, "a", excluded[0].Source)
	assert.Equal(t, "c", excluded[1].Source)
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{PolicyNaN, PolicyZero, PolicyExclude} {
		parsed, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	parsed, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyNaN, parsed)

	_, err = ParsePolicy("drop")
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestQueryChain(t *testing.T) {
	chain := QueryChain(
		core.DocumentChain{Nouns: []string{"moon", "person"}, Verbs: []string{"walk"}},
		core.DocumentChain{Nouns: []string{"person", "astronaut"}},
		core.DocumentChain{Verbs: []string{"walk", "land"}},
	)
	assert.Equal(t, []string{"moon", "person", "astronaut"}, chain.Nouns)
	assert.Equal(t, []string{"walk", "land"}, chain.Verbs)

	assert.Empty(t, QueryChain().Nouns)
}
