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

package topicrank

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/topicrank/ai"
	"github.com/poiesic/topicrank/ai/openai"
	"github.com/poiesic/topicrank/api"
	"github.com/poiesic/topicrank/config"
	"github.com/poiesic/topicrank/expansion"
	"github.com/poiesic/topicrank/extract"
	"github.com/poiesic/topicrank/features"
	"github.com/poiesic/topicrank/lexicon"
	"github.com/poiesic/topicrank/lexicon/cache"
	"github.com/poiesic/topicrank/pipeline"
	"github.com/poiesic/topicrank/record"
	"github.com/poiesic/topicrank/relevance"
	goredis "github.com/redis/go-redis/v9"
)

// Ranker bundles the knowledge base, tagger and stage components built from a Config.
type Ranker struct {
	config    *config.Config
	kb        *KnowledgeBase
	graph     lexicon.Graph
	rdb       *goredis.Client
	provider  ai.Provider
	extractor *features.Extractor
	engine    *expansion.Engine
	codec     *record.Codec
	policy    relevance.Policy
	logger    *slog.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	provider ai.Provider
	graph    lexicon.Graph
	logger   *slog.Logger
}

// WithProvider uses provider instead of an OpenAI-compatible tagger built from the config.
func WithProvider(provider ai.Provider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithGraph uses graph instead of opening the configured knowledge base.
// The Ranker takes ownership and closes it.
func WithGraph(graph lexicon.Graph) Option {
	return func(o *options) {
		o.graph = graph
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open builds a Ranker. The knowledge base is opened read-only and wrapped with the
// Redis cache when configured, then with the per-call timeout.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Ranker, error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Ranker{config: cfg, logger: o.logger}
	ok := false
	defer func() {
		if !ok {
			r.Close()
		}
	}()

	var err error
	r.graph = o.graph
	if r.graph == nil {
		if r.kb, err = OpenKnowledgeBase(ctx, cfg, false, o.logger); err != nil {
			return nil, err
		}
		r.graph = r.kb.Store
	}

	if addr := cfg.Lexicon.Redis.Addr; addr != "" {
		if r.rdb, err = cache.Dial(ctx, addr, cfg.Lexicon.Timeout); err != nil {
			return nil, err
		}
		cached, err := cache.New(r.graph, r.rdb,
			cache.WithPrefix(cfg.Lexicon.Redis.Prefix),
			cache.WithTTL(cfg.Lexicon.Redis.TTL),
			cache.WithLogger(o.logger))
		if err != nil {
			return nil, err
		}
		r.graph = cached
	}
	r.graph = lexicon.WithTimeout(r.graph, cfg.Lexicon.Timeout)

	expCfg, err := cfg.ExpansionConfig()
	if err != nil {
		return nil, err
	}
	if r.engine, err = expansion.NewEngine(r.graph, expansion.WithConfig(expCfg), expansion.WithLogger(o.logger)); err != nil {
		return nil, err
	}

	r.provider = o.provider
	if r.provider == nil {
		if r.provider, err = openai.NewProvider(cfg.TaggerConfig()); err != nil {
			return nil, err
		}
	}
	if r.extractor, err = features.NewExtractor(r.provider.Tagger(), features.WithLogger(o.logger)); err != nil {
		return nil, err
	}

	if r.codec, err = cfg.Codec(); err != nil {
		return nil, err
	}
	if r.policy, err = cfg.Policy(); err != nil {
		return nil, err
	}

	ok = true
	return r, nil
}

// Close releases the tagger, the knowledge base and the cache connection.
func (r *Ranker) Close() error {
	var errs []error
	if r.provider != nil {
		if err := r.provider.Close(); err != nil {
			r.logger.Error("error closing tagger provider", "err", err)
			errs = append(errs, err)
		}
	}
	if r.graph != nil {
		if err := r.graph.Close(); err != nil {
			r.logger.Error("error closing knowledge base", "err", err)
			errs = append(errs, err)
		}
	}
	if r.kb != nil && r.kb.backend != nil {
		if err := r.kb.backend.Close(); err != nil {
			r.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	if r.rdb != nil {
		if err := r.rdb.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Ranker) Config() *config.Config {
	return r.config
}

func (r *Ranker) Engine() *expansion.Engine {
	return r.engine
}

func (r *Ranker) Extractor() *features.Extractor {
	return r.extractor
}

func (r *Ranker) Codec() *record.Codec {
	return r.codec
}

func (r *Ranker) Policy() relevance.Policy {
	return r.policy
}

// NewPipeline creates a pipeline configured from the pipeline section.
// opts are applied after the configured ones.
func (r *Ranker) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	base := []pipeline.Option{
		pipeline.WithRetry(r.config.Pipeline.RetryAttempts, r.config.Pipeline.RetryBaseDelay),
		pipeline.WithCodec(r.codec),
		pipeline.WithLogger(r.logger),
	}
	if n := r.config.Pipeline.PoolSize; n > 0 {
		base = append(base, pipeline.WithPoolSize(n))
	}
	return pipeline.NewPipeline(r.extractor, r.engine, append(base, opts...)...)
}

// NewWebExtractor creates a page extractor configured from the extract section.
func (r *Ranker) NewWebExtractor() (*extract.WebExtractor, error) {
	return NewWebExtractor(r.config, r.logger)
}

// NewWebExtractor creates a page extractor from cfg without opening a knowledge base.
func NewWebExtractor(cfg *config.Config, logger *slog.Logger) (*extract.WebExtractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []extract.Option{
		extract.WithTimeout(cfg.Extract.Timeout),
		extract.WithMaxBytes(cfg.Extract.MaxBytes),
		extract.WithLogger(logger),
	}
	if cfg.Extract.UserAgent != "" {
		opts = append(opts, extract.WithUserAgent(cfg.Extract.UserAgent))
	}
	return extract.NewWebExtractor(opts...)
}

// NewAPI creates the HTTP handlers over p.
func (r *Ranker) NewAPI(p *pipeline.Pipeline) (*api.API, error) {
	return api.NewAPI(r.engine, p, api.WithPolicy(r.policy), api.WithLogger(r.logger))
}
