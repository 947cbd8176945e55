package record

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/relevance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, opts ...Option) *Codec {
	t.Helper()
	c, err := NewCodec(opts...)
	require.NoError(t, err)
	return c
}

func TestNewCodec(t *testing.T) {
	c := newCodec(t)
	assert.Equal(t, "`", c.Delimiter())
	assert.Equal(t, "QUERY", c.QueryMarker())

	tests := []struct {
		name string
		opts []Option
	}{
		{"empty delimiter", []Option{WithDelimiter("")}},
		{"newline delimiter", []Option{WithDelimiter("\n")}},
		{"blank marker", []Option{WithQueryMarker("  ")}},
		{"marker contains delimiter", []Option{WithDelimiter("|"), WithQueryMarker("Q|")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec(tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidCodec)
		})
	}
}

func TestParseSentenceLine(t *testing.T) {
	c := newCodec(t)

	rec, err := c.ParseSentenceLine("http://a.example`First one.`Second one!``\r")
	require.NoError(t, err)
	assert.Equal(t, "http://a.example", rec.Source)
	assert.Equal(t, []string{"First one.", "Second one!"}, rec.Sentences)

	rec, err = c.ParseSentenceLine("http://b.example")
	require.NoError(t, err)
	assert.Empty(t, rec.Sentences)

	_, err = c.ParseSentenceLine("`orphan sentence.")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestParseFeatureLine(t *testing.T) {
	c := newCodec(t)
	tests := []struct {
		name    string
		line    string
		want    FeatureRecord
		wantErr bool
	}{
		{
			name: "nouns",
			line: "http://a.example`NOUN`moon`astronaut",
			want: FeatureRecord{Source: "http://a.example", POS: core.POSNoun, Terms: []string{"moon", "astronaut"}},
		},
		{
			name: "empty verbs",
			line: "QUERY`VERB`",
			want: FeatureRecord{Source: "QUERY", POS: core.POSVerb},
		},
		{name: "missing pos", line: "http://a.example", wantErr: true},
		{name: "unknown pos", line: "http://a.example`ADJ`big", wantErr: true},
		{name: "missing source", line: "`NOUN`moon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ParseFeatureLine(tt.line)
			if tt.wantErr {
				var perr *ParseError
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, tt.line, perr.Record)
				assert.ErrorIs(t, err, ErrMalformedRecord)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFeatureRecord(t *testing.T) {
	c := newCodec(t, WithDelimiter("|"))
	line := c.FormatFeatureRecord(FeatureRecord{Source: "u", POS: core.POSVerb, Terms: []string{"walk", "land"}})
	assert.Equal(t, "u|VERB|walk|land", line)

	rec, err := c.ParseFeatureLine(line)
	require.NoError(t, err)
	assert.Equal(t, []string{"walk", "land"}, rec.Terms)
}

func TestReadFeatures_StopsAtFirstMalformedLine(t *testing.T) {
	c := newCodec(t)
	input := strings.Join([]string{
		"QUERY`VERB`walk",
		"",
		"QUERY`NOUN`moon",
		"http://a.example`NOUN",
		"http://a.example`ADJ`big",
		"http://b.example`NOUN`sun",
	}, "\n")

	records, err := c.ReadFeatures(strings.NewReader(input))
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 5, perr.Line)
	assert.Contains(t, err.Error(), "line 5")
	assert.Len(t, records, 3)
}

func TestReadSentences(t *testing.T) {
	c := newCodec(t)
	input := "QUERY`Who was the first person to walk on the moon\nhttp://a.example`Armstrong walked.`He was first.\n"

	records, err := c.ReadSentences(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, c.IsQuery(records[0].Source))
	assert.False(t, c.IsQuery(records[1].Source))
	assert.Equal(t, []string{"Armstrong walked.", "He was first."}, records[1].Sentences)

	var buf bytes.Buffer
	require.NoError(t, c.WriteSentences(&buf, records))
	assert.Equal(t, input, buf.String())
}

func TestGroup(t *testing.T) {
	records := []FeatureRecord{
		{Source: "QUERY", POS: core.POSVerb, Terms: []string{"walk"}},
		{Source: "QUERY", POS: core.POSNoun, Terms: []string{"moon"}},
		{Source: "u1", POS: core.POSVerb, Terms: []string{"land"}},
		{Source: "u1", POS: core.POSNoun, Terms: []string{"moon", "lander"}},
		{Source: "u1", POS: core.POSVerb, Terms: []string{"orbit"}},
		{Source: "u2", POS: core.POSNoun, Terms: []string{"sun"}},
	}

	docs := Group(records)
	require.Len(t, docs, 4)
	assert.Equal(t, "QUERY", docs[0].Source)
	assert.Equal(t, core.DocumentChain{Nouns: []string{"moon", "lander"}, Verbs: []string{"land"}}, docs[1].Chain)
	assert.Equal(t, "u1", docs[2].Source, "a repeated POS starts a new document")
	assert.Equal(t, []string{"orbit"}, docs[2].Chain.Verbs)
	assert.Equal(t, []string{"sun"}, docs[3].Chain.Nouns)
	assert.Empty(t, docs[3].Chain.Verbs)
}

func TestPartition(t *testing.T) {
	c := newCodec(t)
	docs := []Document{{Source: "QUERY"}, {Source: "u1"}, {Source: "QUERY-2"}, {Source: "u2"}}

	queries, rest := c.Partition(docs)
	assert.Equal(t, []Document{{Source: "QUERY"}, {Source: "QUERY-2"}}, queries)
	assert.Equal(t, []Document{{Source: "u1"}, {Source: "u2"}}, rest)
}

func TestWriteDocuments(t *testing.T) {
	c := newCodec(t)
	var buf bytes.Buffer
	err := c.WriteDocuments(&buf, []Document{
		{Source: "u1", Chain: core.DocumentChain{Nouns: []string{"moon"}, Verbs: []string{"walk", "land"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "u1`VERB`walk`land\nu1`NOUN`moon\n", buf.String())

	records, err := c.ReadFeatures(&buf)
	require.NoError(t, err)
	assert.Len(t, Group(records), 1)
}

func TestWriteScores(t *testing.T) {
	var buf bytes.Buffer
	err := WriteScores(&buf, []relevance.Result{
		{Source: "u1", Score: relevance.Score{Value: 2.0 / 3.0, Defined: true}},
		{Source: "u2", Score: relevance.Undefined},
		{Source: "u3", Score: relevance.Score{Value: 1, Defined: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.6666666666666666\nNaN\n1.0\n", buf.String())
}

func TestFormatSentenceRecord_SanitizesFields(t *testing.T) {
	c := newCodec(t)
	line := c.FormatSentenceRecord(SentenceRecord{
		Source:    "u",
		Sentences: []string{"Use `code` here.", "Two\nlines."},
	})
	assert.Equal(t, "u`Use  code  here.`Two lines.", line)
}
