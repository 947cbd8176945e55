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
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/topicrank/relevance"
)

const maxLineSize = 16 * 1024 * 1024

// ReadSentences reads sentence records, one per line. Blank lines are skipped.
// Reading stops at the first malformed line.
func (c *Codec) ReadSentences(r io.Reader) ([]SentenceRecord, error) {
	var records []SentenceRecord
	err := scan(r, func(n int, line string) error {
		rec, err := c.ParseSentenceLine(line)
		if err != nil {
			return atLine(err, n)
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

// ReadFeatures reads feature records, one per line. Blank lines are skipped.
// Reading stops at the first malformed line.
func (c *Codec) ReadFeatures(r io.Reader) ([]FeatureRecord, error) {
	var records []FeatureRecord
	err := scan(r, func(n int, line string) error {
		rec, err := c.ParseFeatureLine(line)
		if err != nil {
			return atLine(err, n)
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

// WriteSentences writes one line per record.
func (c *Codec) WriteSentences(w io.Writer, records []SentenceRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintln(bw, c.FormatSentenceRecord(rec)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFeatures writes one line per record.
func (c *Codec) WriteFeatures(w io.Writer, records []FeatureRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintln(bw, c.FormatFeatureRecord(rec)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDocuments writes each document as a VERB line followed by a NOUN line.
func (c *Codec) WriteDocuments(w io.Writer, docs []Document) error {
	return c.WriteFeatures(w, Records(docs))
}

// WriteScores writes one score per line in the given order.
func WriteScores(w io.Writer, results []relevance.Result) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if _, err := fmt.Fprintln(bw, r.Score.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func scan(r io.Reader, fn func(n int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading records: %w", err)
	}
	return nil
}

func atLine(err error, n int) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		perr.Line = n
	}
	return err
}
