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

package wordnet

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/lexicon"
)

const (
	defaultBatchSize = 1000
	maxLineSize      = 1 << 20
)

// Stats summarizes an import.
type Stats struct {
	Concepts int
	Senses   int
	Skipped  []string
}

// Importer loads WordNet database files into a lexicon.Loader.
type Importer struct {
	loader      lexicon.Loader
	checkpoints lexicon.CheckpointStore
	batchSize   int
	force       bool
	logger      *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithBatchSize sets how many records are written per loader call.
func WithBatchSize(size int) Option {
	return func(im *Importer) error {
		if size <= 0 {
			return errors.New("batch size must be positive")
		}
		im.batchSize = size
		return nil
	}
}

// WithCheckpoints records finished files so that a rerun skips them.
func WithCheckpoints(store lexicon.CheckpointStore) Option {
	return func(im *Importer) error {
		im.checkpoints = store
		return nil
	}
}

// WithForce reimports files even when a checkpoint says they are done.
func WithForce(force bool) Option {
	return func(im *Importer) error {
		im.force = force
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) error {
		im.logger = logger
		return nil
	}
}

// NewImporter creates an importer writing to loader.
func NewImporter(loader lexicon.Loader, opts ...Option) (*Importer, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	im := &Importer{
		loader:    loader,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(im); err != nil {
			return nil, err
		}
	}
	im.logger = im.logger.With("component", "wordnet_importer")
	return im, nil
}

// ImportDir imports data.noun, data.verb, index.noun and index.verb from a WordNet dict directory.
// Data files are loaded before index files so that senses never point at missing concepts.
func (im *Importer) ImportDir(ctx context.Context, dir string) (Stats, error) {
	var stats Stats
	for _, name := range []string{"data.noun", "data.verb", "index.noun", "index.verb"} {
		done, err := im.isDone(ctx, name)
		if err != nil {
			return stats, err
		}
		if done {
			im.logger.Info("skipping imported file", "file", name)
			stats.Skipped = append(stats.Skipped, name)
			continue
		}

		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return stats, err
		}

		var n int
		isData := strings.HasPrefix(name, "data.")
		if isData {
			n, err = im.ImportData(ctx, f)
			stats.Concepts += n
		} else {
			n, err = im.ImportIndex(ctx, f)
			stats.Senses += n
		}
		f.Close()
		if err != nil {
			return stats, fmt.Errorf("%s: %w", name, err)
		}

		im.logger.Info("imported file", "file", name, "records", n)
		if err := im.markDone(ctx, name, isData, n); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// ImportData imports synsets from a data.<pos> file and returns the number of concepts written.
func (im *Importer) ImportData(ctx context.Context, r io.Reader) (int, error) {
	batch := make([]*core.Concept, 0, im.batchSize)
	total := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := im.loader.AddConcepts(ctx, batch...); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	err := scanLines(ctx, r, func(lineNo int, line string) error {
		concept, ok, err := ParseDataLine(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !ok || len(concept.Members) == 0 {
			return nil
		}
		batch = append(batch, concept)
		if len(batch) >= im.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return total, err
	}
	return total, flush()
}

// ImportIndex imports lemma senses from an index.<pos> file and returns the number of senses written.
func (im *Importer) ImportIndex(ctx context.Context, r io.Reader) (int, error) {
	batch := make([]*core.Sense, 0, im.batchSize)
	total := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := im.loader.AddSenses(ctx, batch...); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	err := scanLines(ctx, r, func(lineNo int, line string) error {
		sense, ok, err := ParseIndexLine(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !ok || len(sense.Concepts) == 0 {
			return nil
		}
		batch = append(batch, sense)
		if len(batch) >= im.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return total, err
	}
	return total, flush()
}

func (im *Importer) isDone(ctx context.Context, source string) (bool, error) {
	if im.checkpoints == nil || im.force {
		return false, nil
	}
	checkpoint, err := im.checkpoints.LoadCheckpoint(ctx, source)
	if err != nil {
		return false, err
	}
	return checkpoint != nil, nil
}

func (im *Importer) markDone(ctx context.Context, source string, isData bool, n int) error {
	if im.checkpoints == nil {
		return nil
	}
	checkpoint := &lexicon.Checkpoint{Source: source}
	if isData {
		checkpoint.Concepts = uint64(n)
	} else {
		checkpoint.Senses = uint64(n)
	}
	return im.checkpoints.SaveCheckpoint(ctx, checkpoint)
}

func scanLines(ctx context.Context, r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := fn(lineNo, scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
