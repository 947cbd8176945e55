package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/topicrank/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTagger_Default(t *testing.T) {
	tagger := NewMockTagger().WithTags(map[string]string{"walked": "VBD", "the": "DT"})

	tokens, err := tagger.Tag(context.Background(), "Armstrong walked the moon.")
	require.NoError(t, err)
	assert.Equal(t, []ai.Token{
		{Text: "Armstrong", Tag: "NN", Lemma: "armstrong"},
		{Text: "walked", Tag: "VBD", Lemma: "walked"},
		{Text: "the", Tag: "DT", Lemma: "the"},
		{Text: "moon", Tag: "NN", Lemma: "moon"},
	}, tokens)
	assert.Equal(t, 1, tagger.CallCount())
}

func TestMockTagger_Func(t *testing.T) {
	boom := errors.New("boom")
	tagger := NewMockTagger().WithTagFunc(func(ctx context.Context, s string) ([]ai.Token, error) {
		return nil, boom
	})

	_, err := tagger.Tag(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	tagger.Reset()
	assert.Equal(t, 0, tagger.CallCount())
	_, err = tagger.Tag(context.Background(), "x")
	assert.NoError(t, err)
}

func TestMockProvider(t *testing.T) {
	provider := NewMockProvider()
	mp := provider.(*MockProvider)

	assert.Same(t, mp.GetMockTagger(), provider.Tagger())
	require.NoError(t, provider.Close())
	assert.True(t, mp.Closed())
}
