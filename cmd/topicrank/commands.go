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

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/poiesic/topicrank"
	"github.com/poiesic/topicrank/api"
	"github.com/poiesic/topicrank/config"
	"github.com/poiesic/topicrank/extract"
	"github.com/poiesic/topicrank/pipeline"
	"github.com/poiesic/topicrank/record"
	"github.com/poiesic/topicrank/relevance"
	"github.com/urfave/cli/v2"
)

// progressInterval is how often, in documents, stage progress is reported.
const progressInterval = 10

func fetchCommand(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	lines, err := readLines(c.String("input"))
	if err != nil {
		return err
	}

	records, err := fetch(c, cfg, lines)
	if records == nil {
		return err
	}
	if err != nil {
		slog.Warn("some pages could not be fetched", "error", err)
	}

	codec, err := cfg.Codec()
	if err != nil {
		return err
	}
	return writeOutput(c.String("output"), func(w io.Writer) error {
		return codec.WriteSentences(w, records)
	})
}

func parseCommand(c *cli.Context) error {
	return withPipeline(c, func(r *topicrank.Ranker, p *pipeline.Pipeline) error {
		codec := r.Codec()
		records, err := readInput(c.String("input"), codec.ReadSentences)
		if err != nil {
			return err
		}

		docs, err := p.Parse(c.Context, records)
		if err != nil {
			if c.Context.Err() != nil {
				return err
			}
			slog.Warn("some documents could not be parsed", "error", err)
		}
		return writeOutput(c.String("output"), func(w io.Writer) error {
			return codec.WriteDocuments(w, docs)
		})
	})
}

func expandCommand(c *cli.Context) error {
	return withPipeline(c, func(r *topicrank.Ranker, p *pipeline.Pipeline) error {
		codec := r.Codec()
		features, err := readInput(c.String("input"), codec.ReadFeatures)
		if err != nil {
			return err
		}

		docs, err := p.Expand(c.Context, record.Group(features))
		if err != nil {
			if c.Context.Err() != nil {
				return err
			}
			slog.Warn("some documents could not be expanded", "error", err)
		}
		return writeOutput(c.String("output"), func(w io.Writer) error {
			return codec.WriteDocuments(w, docs)
		})
	})
}

// scoreCommand needs neither the knowledge base nor the tagger.
func scoreCommand(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	policy, err := scorePolicy(c, cfg)
	if err != nil {
		return err
	}
	codec, err := cfg.Codec()
	if err != nil {
		return err
	}
	features, err := readInput(c.String("input"), codec.ReadFeatures)
	if err != nil {
		return err
	}

	scorer, err := relevance.NewScorer()
	if err != nil {
		return err
	}
	results, err := pipeline.ScoreDocuments(codec, scorer, record.Group(features))
	if err != nil {
		return err
	}
	return writeOutput(c.String("output"), func(w io.Writer) error {
		return record.WriteScores(w, relevance.ApplyPolicy(results, policy))
	})
}

func runCommand(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	policy, err := scorePolicy(c, cfg)
	if err != nil {
		return err
	}
	lines, err := readLines(c.String("input"))
	if err != nil {
		return err
	}

	return withPipeline(c, func(r *topicrank.Ranker, p *pipeline.Pipeline) error {
		records, err := fetch(c, cfg, lines)
		if records == nil {
			return err
		}
		if err != nil {
			slog.Warn("some pages could not be fetched", "error", err)
		}

		result, err := p.Run(c.Context, records)
		if result == nil {
			return err
		}
		if err != nil {
			slog.Warn("some documents failed", "run", result.RunID, "error", err)
		}

		if path := c.String("documents"); path != "" {
			if err := writeOutput(path, func(w io.Writer) error {
				return r.Codec().WriteDocuments(w, result.Documents)
			}); err != nil {
				return err
			}
		}
		return writeOutput(c.String("output"), func(w io.Writer) error {
			return record.WriteScores(w, relevance.ApplyPolicy(result.Scores, policy))
		})
	})
}

func serveCommand(c *cli.Context) error {
	return withPipeline(c, func(r *topicrank.Ranker, p *pipeline.Pipeline) error {
		a, err := r.NewAPI(p)
		if err != nil {
			return err
		}

		addr := c.String("addr")
		if addr == "" {
			addr = r.Config().Server.Addr
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           api.NewRouter(a),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("listening", "addr", addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-c.Context.Done():
			slog.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	})
}

// withPipeline opens the knowledge base and tagger, runs fn and releases everything.
func withPipeline(c *cli.Context, fn func(r *topicrank.Ranker, p *pipeline.Pipeline) error) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	r, err := topicrank.Open(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer r.Close()

	var opts []pipeline.Option
	if c.Bool("progress") {
		opts = append(opts, pipeline.WithProgress(os.Stderr, progressInterval))
	}
	p, err := r.NewPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Release()

	return fn(r, p)
}

// fetch downloads the URL lines. It returns nil records only on a fatal error.
func fetch(c *cli.Context, cfg *config.Config, lines []string) ([]record.SentenceRecord, error) {
	ex, err := topicrank.NewWebExtractor(cfg, slog.Default())
	if err != nil {
		return nil, err
	}
	codec, err := cfg.Codec()
	if err != nil {
		return nil, err
	}
	concurrency := cfg.Extract.Concurrency
	if n := c.Int("concurrency"); n > 0 {
		concurrency = n
	}

	records, err := extract.FetchAll(c.Context, ex, codec, lines, concurrency, slog.Default())
	if records == nil && err == nil {
		records = []record.SentenceRecord{}
	}
	return records, err
}

func scorePolicy(c *cli.Context, cfg *config.Config) (relevance.Policy, error) {
	if c.IsSet("policy") {
		return relevance.ParsePolicy(c.String("policy"))
	}
	return cfg.Policy()
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

func readInput[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	in, err := openInput(path)
	if err != nil {
		return zero, err
	}
	defer in.Close()
	return read(in)
}

func readLines(path string) ([]string, error) {
	return readInput(path, func(r io.Reader) ([]string, error) {
		var lines []string
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		return lines, scanner.Err()
	})
}

func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
