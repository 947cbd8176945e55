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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/topicrank/chaining"
	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/expansion"
	"github.com/poiesic/topicrank/features"
	"github.com/poiesic/topicrank/record"
	"github.com/poiesic/topicrank/relevance"
)

// Pipeline runs the parse, expand and score stages over a batch of documents.
// Documents are processed concurrently on a worker pool; results keep input order.
type Pipeline struct {
	extractor   *features.Extractor
	engine      *expansion.Engine
	codec       *record.Codec
	merger      *chaining.Merger
	scorer      *relevance.Scorer
	pool        *ants.Pool
	maxAttempts int
	baseDelay   time.Duration
	progress    io.Writer
	interval    int
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithRetry sets how tagging failures are retried.
// Default is 3 attempts starting at a 500ms delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithProgress reports per-stage progress to w every interval documents.
func WithProgress(w io.Writer, interval int) Option {
	return func(p *Pipeline) error {
		p.progress = w
		p.interval = interval
		return nil
	}
}

// WithCodec sets the record codec used to tell query documents apart.
func WithCodec(codec *record.Codec) Option {
	return func(p *Pipeline) error {
		if codec == nil {
			return ErrCodecRequired
		}
		p.codec = codec
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new pipeline.
func NewPipeline(extractor *features.Extractor, engine *expansion.Engine, opts ...Option) (*Pipeline, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if engine == nil {
		return nil, ErrEngineRequired
	}

	pool, err := ants.NewPool(max(runtime.NumCPU(), 1))
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		extractor:   extractor,
		engine:      engine,
		pool:        pool,
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	if p.codec == nil {
		if p.codec, err = record.NewCodec(); err != nil {
			p.Release()
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "pipeline")
	p.merger = chaining.NewMerger(chaining.WithLogger(p.logger))
	if p.scorer, err = relevance.NewScorer(relevance.WithLogger(p.logger)); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

// Result is the outcome of a full run.
type Result struct {
	RunID     string
	Documents []record.Document
	Scores    []relevance.Result
}

// Run parses, expands and scores records.
//
// A document that fails a stage keeps an empty chain, so its score is
// undefined; the per-document errors are returned joined together with
// the partial result. Cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context, records []record.SentenceRecord) (*Result, error) {
	runID := uuid.NewString()
	ctx = withRunLogger(ctx, p.logger.With("run", runID))
	logger := runLogger(ctx, p.logger)
	start := time.Now()

	docs, parseErr := p.Parse(ctx, records)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	expanded, expandErr := p.Expand(ctx, docs)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	scores, err := p.Score(expanded)
	if err != nil {
		return nil, err
	}

	logger.Info("run complete",
		"documents", len(records),
		"scored", len(scores),
		"elapsed", time.Since(start))
	return &Result{RunID: runID, Documents: expanded, Scores: scores}, errors.Join(parseErr, expandErr)
}

// Parse tags every document's sentences and reduces them to the dominant chain.
func (p *Pipeline) Parse(ctx context.Context, records []record.SentenceRecord) ([]record.Document, error) {
	logger := runLogger(ctx, p.logger)
	docs := make([]record.Document, len(records))
	err := p.forEach(ctx, "parse", len(records), func(ctx context.Context, i int) error {
		rec := records[i]
		docs[i].Source = rec.Source
		sentences, err := p.sentenceFeatures(ctx, rec.Sentences)
		if err != nil {
			return fmt.Errorf("parse %s: %w", rec.Source, err)
		}
		chain, ok := p.merger.Dominant(sentences)
		if !ok {
			logger.Debug("document has no features", "source", rec.Source)
		}
		docs[i].Chain = chain
		return nil
	})
	return docs, err
}

// Expand expands both chains of every document.
func (p *Pipeline) Expand(ctx context.Context, docs []record.Document) ([]record.Document, error) {
	out := make([]record.Document, len(docs))
	err := p.forEach(ctx, "expand", len(docs), func(ctx context.Context, i int) error {
		out[i].Source = docs[i].Source
		chain, err := p.engine.ExpandChain(ctx, docs[i].Chain)
		if err != nil {
			return fmt.Errorf("expand %s: %w", docs[i].Source, err)
		}
		out[i].Chain = chain
		return nil
	})
	return out, err
}

// Score compares every non-query document with the union of the query documents.
func (p *Pipeline) Score(docs []record.Document) ([]relevance.Result, error) {
	return ScoreDocuments(p.codec, p.scorer, docs)
}

// ScoreDocuments scores docs without the tagging and expansion stages.
// Query documents are told apart by codec; their chains are merged into one query.
func ScoreDocuments(codec *record.Codec, scorer *relevance.Scorer, docs []record.Document) ([]relevance.Result, error) {
	if codec == nil {
		return nil, ErrCodecRequired
	}
	queries, rest := codec.Partition(docs)
	if len(queries) == 0 {
		return nil, ErrNoQuery
	}
	query := relevance.QueryChain(record.Chains(queries)...)

	scores := scorer.ScoreAll(query, record.Chains(rest))
	results := make([]relevance.Result, len(rest))
	for i, d := range rest {
		results[i] = relevance.Result{Source: d.Source, Score: scores[i]}
	}
	return results, nil
}

// Codec returns the record codec used to tell query documents apart.
func (p *Pipeline) Codec() *record.Codec {
	return p.codec
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

func (p *Pipeline) sentenceFeatures(ctx context.Context, sentences []string) ([]core.SentenceFeatures, error) {
	logger := runLogger(ctx, p.logger)
	out := make([]core.SentenceFeatures, 0, len(sentences))
	for _, s := range sentences {
		var f core.SentenceFeatures
		err := retryWithBackoff(ctx, logger, func() error {
			var err error
			f, err = p.extractor.Sentence(ctx, s)
			return err
		}, p.maxAttempts, p.baseDelay)
		if err != nil {
			return nil, err
		}
		if !f.IsEmpty() {
			out = append(out, f)
		}
	}
	logger.Debug("extracted features", "sentences", len(sentences), "kept", len(out))
	return out, nil
}

// forEach runs fn for indexes [0, n) on the pool and waits for all of them.
func (p *Pipeline) forEach(ctx context.Context, stage string, n int, fn func(ctx context.Context, i int) error) error {
	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, stage, n, p.interval)
		tracker.Start()
		defer tracker.Finish()
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = fn(ctx, i)
			if tracker != nil {
				tracker.Increment(1)
			}
		}
		if err := p.pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	err := errors.Join(errs...)
	if err != nil {
		runLogger(ctx, p.logger).Warn("stage finished with errors", "stage", stage, "documents", n)
	}
	return err
}

type loggerKey struct{}

func withRunLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func runLogger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return fallback
}
