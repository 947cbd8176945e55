package topicrank

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/topicrank/ai/mock"
	"github.com/poiesic/topicrank/config"
	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/lexicon"
	"github.com/poiesic/topicrank/lexicon/badger"
	"github.com/poiesic/topicrank/lexicon/wordnet"
	"github.com/poiesic/topicrank/record"
	"github.com/poiesic/topicrank/relevance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedKnowledgeBase imports the WordNet fixture into a badger directory.
func seedKnowledgeBase(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Lexicon.Path = filepath.Join(t.TempDir(), "kb")

	kb, err := OpenKnowledgeBase(context.Background(), cfg, true, nil)
	require.NoError(t, err)
	im, err := wordnet.NewImporter(kb.Store, wordnet.WithCheckpoints(kb.Checkpoints))
	require.NoError(t, err)
	_, err = im.ImportDir(context.Background(), "lexicon/wordnet/testdata")
	require.NoError(t, err)
	require.NoError(t, kb.Close())
	return cfg
}

func mockProvider() *mock.MockProvider {
	tagger := mock.NewMockTagger().WithTags(map[string]string{
		"orbit":  "VBZ",
		"travel": "VB",
	})
	return mock.NewMockProviderWithTagger(tagger).(*mock.MockProvider)
}

func TestOpen(t *testing.T) {
	cfg := seedKnowledgeBase(t)
	provider := mockProvider()

	r, err := Open(context.Background(), cfg, WithProvider(provider))
	require.NoError(t, err)

	assert.NotNil(t, r.Engine())
	assert.NotNil(t, r.Extractor())
	assert.Equal(t, "QUERY", r.Codec().QueryMarker())
	assert.Equal(t, relevance.PolicyNaN, r.Policy())
	assert.Same(t, cfg, r.Config())

	chain, err := r.Engine().ExpandChain(context.Background(), core.DocumentChain{Verbs: []string{"orbit"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"orbit", "revolve", "travel"}, chain.Verbs)

	require.NoError(t, r.Close())
	assert.True(t, provider.Closed())
}

func TestRanker_NewPipeline(t *testing.T) {
	cfg := seedKnowledgeBase(t)
	cfg.Pipeline.PoolSize = 2

	r, err := Open(context.Background(), cfg, WithProvider(mockProvider()))
	require.NoError(t, err)
	defer r.Close()

	p, err := r.NewPipeline()
	require.NoError(t, err)
	defer p.Release()

	result, err := p.Run(context.Background(), []record.SentenceRecord{
		{Source: "QUERY", Sentences: []string{"The astronaut will orbit the moon"}},
		{Source: "http://a", Sentences: []string{"Satellite travel.", "Moon orbit."}},
	})
	require.NoError(t, err)
	require.Len(t, result.Scores, 1)
	assert.Equal(t, relevance.Score{Value: 1, Defined: true}, result.Scores[0].Score)

	a, err := r.NewAPI(p)
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestOpen_WithGraph(t *testing.T) {
	graph, backend, err := badger.NewMemoryGraph()
	require.NoError(t, err)
	defer backend.Close()

	cfg := config.Default()
	cfg.Lexicon.Path = filepath.Join(t.TempDir(), "unused")
	r, err := Open(context.Background(), cfg, WithGraph(graph), WithProvider(mockProvider()))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, statErr := os.Stat(cfg.Lexicon.Path)
	assert.True(t, os.IsNotExist(statErr), "the configured knowledge base is not opened")
}

func TestOpen_Errors(t *testing.T) {
	t.Run("missing knowledge base", func(t *testing.T) {
		cfg := config.Default()
		cfg.Lexicon.Path = filepath.Join(t.TempDir(), "missing")

		r, err := Open(context.Background(), cfg, WithProvider(mockProvider()))
		assert.ErrorIs(t, err, lexicon.ErrUnavailable)
		assert.Nil(t, r)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Lexicon.Backend = "sqlite"

		_, err := Open(context.Background(), cfg)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("unreachable cache", func(t *testing.T) {
		cfg := seedKnowledgeBase(t)
		cfg.Lexicon.Redis.Addr = "127.0.0.1:1"

		provider := mockProvider()
		_, err := Open(context.Background(), cfg, WithProvider(provider))
		assert.ErrorIs(t, err, lexicon.ErrUnavailable)
	})
}

func TestNewWebExtractor(t *testing.T) {
	cfg := config.Default()
	cfg.Extract.UserAgent = "test-agent"
	ex, err := NewWebExtractor(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, ex)

	cfg.Extract.MaxBytes = 0
	_, err = NewWebExtractor(cfg, nil)
	assert.Error(t, err)
}
