package neo4j

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MissingURI(t *testing.T) {
	_, err := Open(context.Background(), Config{}, nil)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestToStrings(t *testing.T) {
	assert.Equal(t, []string{"moon", "satellite"}, toStrings([]any{"moon", 3, "satellite"}))
	assert.Nil(t, toStrings(nil))
}

func TestClosedGraph(t *testing.T) {
	g := &Graph{}
	_, _, err := g.PrimaryConcept(context.Background(), "moon", core.POSNoun)
	assert.ErrorIs(t, err, lexicon.ErrGraphClosed)
	assert.NoError(t, g.Close())
}

func TestIntegration_RoundTrip(t *testing.T) {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("set NEO4J_URI to run Neo4j integration tests")
	}

	ctx := context.Background()
	g, err := Open(ctx, Config{
		URI:      uri,
		User:     os.Getenv("NEO4J_USER"),
		Password: os.Getenv("NEO4J_PASSWORD"),
		Timeout:  5 * time.Second,
	}, nil)
	require.NoError(t, err)
	defer g.Close()
	g.EnsureSchema(ctx)

	satellite := &core.Concept{Id: core.IDFromContent("test:satellite"), POS: core.POSNoun, Members: []string{"satellite"}}
	moon := &core.Concept{
		Id:        core.IDFromContent("test:moon"),
		POS:       core.POSNoun,
		Members:   []string{"moon"},
		Relations: map[core.RelationKind][]core.ID{core.RelationHypernym: {satellite.Id}},
	}
	require.NoError(t, g.AddConcepts(ctx, satellite, moon))
	require.NoError(t, g.AddSenses(ctx, &core.Sense{Term: core.Term{Lemma: "moon", POS: core.POSNoun}, Concepts: []core.ID{moon.Id}}))

	id, ok, err := g.PrimaryConcept(ctx, "moon", core.POSNoun)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, moon.Id, id)

	related, err := g.RelatedConcepts(ctx, moon.Id, core.RelationHypernym)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{satellite.Id}, related)

	members, err := g.Members(ctx, satellite.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"satellite"}, members)
}
