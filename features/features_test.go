package features

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/topicrank/ai"
	"github.com/poiesic/topicrank/ai/mock"
	"github.com/poiesic/topicrank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopWords(t *testing.T) {
	stop := DefaultStopWords()

	tests := []struct {
		word string
		want bool
	}{
		{"the", true},
		{"The", true},
		{"don't", true},
		{"moon", false},
		{"he", true},
		// membership is exact, not substring
		{"heart", false},
		{"astronaut", false},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, stop.Contains(tt.word))
		})
	}
}

func TestFromTokens(t *testing.T) {
	tokens := []ai.Token{
		{Text: "Neil", Tag: "NNP", Lemma: "neil"},
		{Text: "Armstrong", Tag: "NNP", Lemma: "armstrong"},
		{Text: "was", Tag: "VBD", Lemma: "be"},
		{Text: "first", Tag: "JJ", Lemma: "first"},
		{Text: "walked", Tag: "VBD", Lemma: "walk"},
		{Text: "walks", Tag: "VBZ", Lemma: "walk"},
		{Text: "moons", Tag: "NNS", Lemma: "moon"},
		{Text: "moon", Tag: "NN", Lemma: "moon"},
		{Text: "Sea", Tag: "NNP", Lemma: "Sea of Tranquility"},
		{Text: "--", Tag: "NN", Lemma: "--"},
		{Text: "walk", Tag: "NN", Lemma: "walk"},
	}

	f := FromTokens(tokens, DefaultStopWords())
	assert.Equal(t, []string{"neil", "armstrong", "moon", "sea_of_tranquility", "walk"}, f.Nouns)
	assert.Equal(t, []string{"walk"}, f.Verbs)
}

func TestFromTokens_MissingLemma(t *testing.T) {
	f := FromTokens([]ai.Token{{Text: "Rocket", Tag: "NN"}}, DefaultStopWords())
	assert.Equal(t, []string{"rocket"}, f.Nouns)
}

func TestExtractor_Sentence(t *testing.T) {
	tagger := mock.NewMockTagger().WithTags(map[string]string{
		"walked": "VBD",
		"on":     "IN",
		"the":    "DT",
		"is":     "VBZ",
	})
	e, err := NewExtractor(tagger)
	require.NoError(t, err)

	tests := []struct {
		sentence string
		want     core.SentenceFeatures
	}{
		{"Armstrong walked on the moon.", core.SentenceFeatures{Nouns: []string{"armstrong", "moon"}, Verbs: []string{"walked"}}},
		{"The is the.", core.SentenceFeatures{}},
		{"Moon moon moon!", core.SentenceFeatures{Nouns: []string{"moon"}}},
	}
	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			got, err := e.Sentence(context.Background(), tt.sentence)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, 3, tagger.CallCount())
}

func TestExtractor_TaggerError(t *testing.T) {
	boom := errors.New("model down")
	tagger := mock.NewMockTagger().WithTagFunc(func(ctx context.Context, s string) ([]ai.Token, error) {
		return nil, boom
	})
	e, err := NewExtractor(tagger)
	require.NoError(t, err)

	_, err = e.Sentence(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestExtractor_CustomStopWords(t *testing.T) {
	e, err := NewExtractor(mock.NewMockTagger(), WithStopWords(NewStopWords([]string{"Moon"})))
	require.NoError(t, err)

	f, err := e.Sentence(context.Background(), "moon rocket the")
	require.NoError(t, err)
	assert.Equal(t, []string{"rocket", "the"}, f.Nouns)
}

func TestNewExtractor_RequiresTagger(t *testing.T) {
	_, err := NewExtractor(nil)
	assert.ErrorIs(t, err, ErrTaggerRequired)
}
