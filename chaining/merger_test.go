package chaining

import (
	"fmt"
	"testing"

	"github.com/poiesic/topicrank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nouns(terms ...string) core.SentenceFeatures {
	return core.SentenceFeatures{Nouns: terms}
}

func TestClusters_SharedNoun(t *testing.T) {
	m := NewMerger()
	clusters := m.Clusters([]core.SentenceFeatures{
		nouns("a", "b"),
		nouns("b", "c"),
		nouns("d"),
	})

	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"a", "b", "c"}, clusters[0].Nouns)
	assert.Equal(t, []string{"d"}, clusters[1].Nouns)

	dominant, ok := m.Dominant([]core.SentenceFeatures{nouns("a", "b"), nouns("b", "c"), nouns("d")})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, dominant.Nouns)
}

func TestClusters_SharedVerb(t *testing.T) {
	clusters := NewMerger().Clusters([]core.SentenceFeatures{
		{Nouns: []string{"moon"}, Verbs: []string{"orbit"}},
		{Nouns: []string{"earth"}, Verbs: []string{"spin"}},
		{Nouns: []string{"satellite"}, Verbs: []string{"orbit", "launch"}},
	})

	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"moon", "satellite"}, clusters[0].Nouns)
	assert.Equal(t, []string{"orbit", "launch"}, clusters[0].Verbs)
	assert.Equal(t, []string{"earth"}, clusters[1].Nouns)
}

func TestClusters_Transitive(t *testing.T) {
	// 0 and 2 only connect through 3, which is merged into 0 first.
	clusters := NewMerger().Clusters([]core.SentenceFeatures{
		nouns("a"),
		nouns("x"),
		nouns("c"),
		nouns("a", "c"),
	})

	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"a", "c"}, clusters[0].Nouns)
	assert.Equal(t, []string{"x"}, clusters[1].Nouns)
}

func TestClusters_MergeOrder(t *testing.T) {
	// f=0 absorbs index 2 first (shares "b"), then the rescan finds "c" in the old index 1.
	clusters := NewMerger().Clusters([]core.SentenceFeatures{
		nouns("a", "b"),
		nouns("d", "c"),
		nouns("b", "c"),
	})

	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"a", "b", "c", "d"}, clusters[0].Nouns)
}

func TestClusters_Disjoint(t *testing.T) {
	// The last sentences bridge chains that were already passed over.
	clusters := NewMerger().Clusters([]core.SentenceFeatures{
		nouns("a"),
		nouns("b"),
		{Nouns: []string{"c"}, Verbs: []string{"run"}},
		nouns("d"),
		nouns("b", "d"),
		{Nouns: []string{"a"}, Verbs: []string{"run"}},
	})

	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"a", "c"}, clusters[0].Nouns)
	assert.Equal(t, []string{"run"}, clusters[0].Verbs)
	assert.Equal(t, []string{"b", "d"}, clusters[1].Nouns)

	for i := range clusters {
		for j := i + 1; j < len(clusters); j++ {
			for _, n := range clusters[i].Nouns {
				assert.NotContains(t, clusters[j].Nouns, n)
			}
			for _, v := range clusters[i].Verbs {
				assert.NotContains(t, clusters[j].Verbs, v)
			}
		}
	}
}

func TestClusters_Connectivity(t *testing.T) {
	var sentences []core.SentenceFeatures
	for i := 0; i < 20; i++ {
		// sentences i and i+1 share "k<i+1>" for even i; odd boundaries are disconnected
		s := nouns(fmt.Sprintf("k%d", i))
		if i%2 == 0 {
			s.Nouns = append(s.Nouns, fmt.Sprintf("k%d", i+1))
		}
		sentences = append(sentences, s)
	}

	clusters := NewMerger().Clusters(sentences)
	require.Len(t, clusters, 10)

	where := make(map[string]int)
	for ci, c := range clusters {
		seen := make(map[string]bool)
		for _, n := range c.Nouns {
			assert.False(t, seen[n], "duplicate %q in chain %d", n, ci)
			seen[n] = true
			where[n] = ci
		}
	}
	for i := 0; i < 20; i += 2 {
		assert.Equal(t, where[fmt.Sprintf("k%d", i)], where[fmt.Sprintf("k%d", i+1)])
	}
}

func TestClusters_DoesNotModifyInput(t *testing.T) {
	input := []core.SentenceFeatures{nouns("a", "b"), nouns("b", "c")}
	NewMerger().Clusters(input)
	assert.Equal(t, []string{"a", "b"}, input[0].Nouns)
	assert.Equal(t, []string{"b", "c"}, input[1].Nouns)
}

func TestDominant_Ties(t *testing.T) {
	dominant, ok := NewMerger().Dominant([]core.SentenceFeatures{
		nouns("a", "b"),
		nouns("c", "d"),
	})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, dominant.Nouns, "ties go to the earliest chain")
}

func TestDominant_VerbOnly(t *testing.T) {
	dominant, ok := NewMerger().Dominant([]core.SentenceFeatures{
		{Verbs: []string{"run"}},
		{Verbs: []string{"jump"}},
	})
	require.True(t, ok)
	assert.Empty(t, dominant.Nouns)
	assert.Equal(t, []string{"run"}, dominant.Verbs)
}

func TestMerge_Empty(t *testing.T) {
	m := NewMerger()
	_, ok := m.Dominant(nil)
	assert.False(t, ok)

	chain := m.Merge(nil)
	assert.Empty(t, chain.Nouns)
	assert.Empty(t, chain.Verbs)
}
