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

package record

import (
	"fmt"
	"strings"

	"github.com/poiesic/topicrank/core"
)

const (
	// DefaultDelimiter separates fields within a record.
	DefaultDelimiter = "`"

	// DefaultQueryMarker identifies records produced from the query.
	DefaultQueryMarker = "QUERY"
)

// SentenceRecord is one document's sentences, or the query text when the
// source carries the query marker.
type SentenceRecord struct {
	Source    string
	Sentences []string
}

// FeatureRecord is one POS chain of a document.
type FeatureRecord struct {
	Source string
	POS    core.POS
	Terms  []string
}

// Codec reads and writes delimited records.
type Codec struct {
	delimiter   string
	queryMarker string
}

// Option configures a Codec.
type Option func(*Codec) error

// WithDelimiter sets the field delimiter.
func WithDelimiter(delimiter string) Option {
	return func(c *Codec) error {
		if delimiter == "" || strings.ContainsAny(delimiter, "\r\n") {
			return fmt.Errorf("%w: delimiter %q", ErrInvalidCodec, delimiter)
		}
		c.delimiter = delimiter
		return nil
	}
}

// WithQueryMarker sets the marker that identifies query records.
func WithQueryMarker(marker string) Option {
	return func(c *Codec) error {
		if strings.TrimSpace(marker) == "" {
			return fmt.Errorf("%w: empty query marker", ErrInvalidCodec)
		}
		c.queryMarker = marker
		return nil
	}
}

// NewCodec creates a Codec using the default delimiter and query marker unless overridden.
func NewCodec(opts ...Option) (*Codec, error) {
	c := &Codec{
		delimiter:   DefaultDelimiter,
		queryMarker: DefaultQueryMarker,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if strings.Contains(c.queryMarker, c.delimiter) {
		return nil, fmt.Errorf("%w: query marker %q contains delimiter", ErrInvalidCodec, c.queryMarker)
	}
	return c, nil
}

// Delimiter returns the field delimiter.
func (c *Codec) Delimiter() string {
	return c.delimiter
}

// QueryMarker returns the query marker.
func (c *Codec) QueryMarker() string {
	return c.queryMarker
}

// IsQuery reports whether source names a query record.
func (c *Codec) IsQuery(source string) bool {
	return strings.Contains(source, c.queryMarker)
}

// ParseSentenceLine parses "<source>`sentence`sentence...".
// Empty sentences are dropped.
func (c *Codec) ParseSentenceLine(line string) (SentenceRecord, error) {
	fields := strings.Split(trimLine(line), c.delimiter)
	source := strings.TrimSpace(fields[0])
	if source == "" {
		return SentenceRecord{}, &ParseError{Record: line, Reason: "missing source"}
	}
	return SentenceRecord{Source: source, Sentences: nonEmpty(fields[1:])}, nil
}

// FormatSentenceRecord formats a sentence record as a single line without a line terminator.
func (c *Codec) FormatSentenceRecord(r SentenceRecord) string {
	return c.join(r.Source, r.Sentences)
}

// ParseFeatureLine parses "<source>`<NOUN|VERB>`term`term...".
// A record with no terms is valid.
func (c *Codec) ParseFeatureLine(line string) (FeatureRecord, error) {
	fields := strings.Split(trimLine(line), c.delimiter)
	if len(fields) < 2 {
		return FeatureRecord{}, &ParseError{Record: line, Reason: "missing POS field"}
	}
	source := strings.TrimSpace(fields[0])
	if source == "" {
		return FeatureRecord{}, &ParseError{Record: line, Reason: "missing source"}
	}
	pos, err := core.ParsePOS(strings.TrimSpace(fields[1]))
	if err != nil {
		return FeatureRecord{}, &ParseError{Record: line, Reason: err.Error()}
	}
	return FeatureRecord{Source: source, POS: pos, Terms: nonEmpty(fields[2:])}, nil
}

// FormatFeatureRecord formats a feature record as a single line without a line terminator.
func (c *Codec) FormatFeatureRecord(r FeatureRecord) string {
	return c.join(r.Source+c.delimiter+r.POS.String(), r.Terms)
}

// join writes head and fields as one line. Delimiters and line breaks
// inside a field become spaces.
func (c *Codec) join(head string, fields []string) string {
	var sb strings.Builder
	sb.WriteString(head)
	for _, f := range fields {
		sb.WriteString(c.delimiter)
		sb.WriteString(c.sanitize(f))
	}
	return sb.String()
}

func (c *Codec) sanitize(field string) string {
	if strings.ContainsAny(field, "\r\n") {
		field = strings.NewReplacer("\r", " ", "\n", " ").Replace(field)
	}
	return strings.ReplaceAll(field, c.delimiter, " ")
}

func trimLine(line string) string {
	return strings.TrimRight(line, "\r\n")
}

func nonEmpty(fields []string) []string {
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
