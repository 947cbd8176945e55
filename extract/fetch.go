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

package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/topicrank/record"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages fetched at once by FetchAll.
const DefaultConcurrency = 4

// FetchAll turns input lines into sentence records, preserving order.
//
// A line whose source carries the codec's query marker is parsed as a
// sentence record and passed through untouched. Every other non-blank line
// is a URL that is fetched with ex. A failed fetch yields a record with no
// sentences; all fetch failures are returned joined. Cancelling ctx stops
// outstanding fetches and returns ctx's error.
func FetchAll(ctx context.Context, ex Extractor, codec *record.Codec, lines []string, concurrency int, logger *slog.Logger) ([]record.SentenceRecord, error) {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}

	var inputs []string
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			inputs = append(inputs, line)
		}
	}

	records := make([]record.SentenceRecord, len(inputs))
	failures := make([]error, len(inputs))

	var urls []int
	for i, line := range inputs {
		if !codec.IsQuery(line) {
			urls = append(urls, i)
			continue
		}
		rec, err := codec.ParseSentenceLine(line)
		if err != nil {
			return nil, fmt.Errorf("query line %d: %w", i+1, err)
		}
		records[i] = rec
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, i := range urls {
		line := inputs[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = record.SentenceRecord{Source: line}
			sentences, err := ex.Extract(gctx, line)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("fetch failed", "url", line, "err", err)
				failures[i] = err
				return nil
			}
			records[i].Sentences = sentences
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, errors.Join(failures...)
}
