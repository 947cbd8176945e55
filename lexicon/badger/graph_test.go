package badger

import (
	"context"
	"testing"

	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMoon(t *testing.T, g *Graph) (moon, satellite *core.Concept) {
	t.Helper()
	ctx := context.Background()

	satellite = &core.Concept{POS: core.POSNoun, Members: []string{"satellite"}}
	require.NoError(t, g.AddConcepts(ctx, satellite))

	moon = &core.Concept{
		POS:     core.POSNoun,
		Members: []string{"moon"},
		Relations: map[core.RelationKind][]core.ID{
			core.RelationHypernym: {satellite.Id},
		},
	}
	require.NoError(t, g.AddConcepts(ctx, moon))

	require.NoError(t, g.AddSenses(ctx,
		&core.Sense{Term: core.Term{Lemma: "moon", POS: core.POSNoun}, Concepts: []core.ID{moon.Id, satellite.Id}},
		&core.Sense{Term: core.Term{Lemma: "satellite", POS: core.POSNoun}, Concepts: []core.ID{satellite.Id}},
	))
	return moon, satellite
}

func TestGraphLookups(t *testing.T) {
	graph, backend, err := NewMemoryGraph()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	moon, satellite := seedMoon(t, graph)

	assert.NotZero(t, moon.Id, "content-based ID should be assigned")

	id, ok, err := graph.PrimaryConcept(ctx, "moon", core.POSNoun)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, moon.Id, id)

	related, err := graph.RelatedConcepts(ctx, moon.Id, core.RelationHypernym)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{satellite.Id}, related)

	self, err := graph.RelatedConcepts(ctx, moon.Id, core.RelationSelf)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{moon.Id}, self)

	members, err := graph.Members(ctx, satellite.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"satellite"}, members)
}

func TestGraphMiss(t *testing.T) {
	graph, backend, err := NewMemoryGraph()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	seedMoon(t, graph)

	_, ok, err := graph.PrimaryConcept(ctx, "moon", core.POSVerb)
	require.NoError(t, err)
	assert.False(t, ok, "noun sense must not satisfy a verb lookup")

	_, ok, err = graph.PrimaryConcept(ctx, "quasar", core.POSNoun)
	require.NoError(t, err)
	assert.False(t, ok)

	related, err := graph.RelatedConcepts(ctx, core.ID(12345), core.RelationHypernym)
	require.NoError(t, err)
	assert.Empty(t, related)

	members, err := graph.Members(ctx, core.ID(12345))
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestGraphNormalizesLemmas(t *testing.T) {
	graph, backend, err := NewMemoryGraph()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	concept := &core.Concept{POS: core.POSNoun, Members: []string{"space_station"}}
	require.NoError(t, graph.AddConcepts(ctx, concept))
	require.NoError(t, graph.AddSenses(ctx, &core.Sense{Term: core.Term{Lemma: "space_station", POS: core.POSNoun}, Concepts: []core.ID{concept.Id}}))

	id, ok, err := graph.PrimaryConcept(ctx, "Space Station", core.POSNoun)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, concept.Id, id)
}

func TestGraphRejectsInvalidConcept(t *testing.T) {
	graph, backend, err := NewMemoryGraph()
	require.NoError(t, err)
	defer backend.Close()

	err = graph.AddConcepts(context.Background(), &core.Concept{POS: core.POSNoun})
	assert.ErrorIs(t, err, core.ErrEmptyMembers)

	err = graph.AddSenses(context.Background(), &core.Sense{Term: core.Term{Lemma: "moon", POS: core.POSNoun}})
	assert.ErrorIs(t, err, core.ErrInvalidSense)
}

func TestGraphCounts(t *testing.T) {
	graph, backend, err := NewMemoryGraph()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	seedMoon(t, graph)

	concepts, err := graph.CountConcepts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, concepts)

	senses, err := graph.CountSenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, senses)
}

func TestGraphClosed(t *testing.T) {
	graph, backend, err := NewMemoryGraph()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	_, _, err = graph.PrimaryConcept(context.Background(), "moon", core.POSNoun)
	assert.ErrorIs(t, err, lexicon.ErrGraphClosed)
}

func TestGraphCanceledContext(t *testing.T) {
	graph, backend, err := NewMemoryGraph()
	require.NoError(t, err)
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = graph.Members(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGraphGetSense(t *testing.T) {
	graph, backend, err := NewMemoryGraph()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	moon, satellite := seedMoon(t, graph)

	sense, err := graph.GetSense(ctx, "Moon", core.POSNoun)
	require.NoError(t, err)
	require.NotNil(t, sense)
	assert.Equal(t, core.Term{Lemma: "moon", POS: core.POSNoun}, sense.Term)
	assert.Equal(t, []core.ID{moon.Id, satellite.Id}, sense.Concepts)

	sense, err = graph.GetSense(ctx, "moon", core.POSVerb)
	require.NoError(t, err)
	assert.Nil(t, sense)
}
