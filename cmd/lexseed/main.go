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
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/topicrank"
	"github.com/poiesic/topicrank/config"
	"github.com/poiesic/topicrank/lexicon/wordnet"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stderr).RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "lexseed",
		Usage:     "Import a WordNet dictionary into a topicrank knowledge base",
		ArgsUsage: "<wordnet dict directory>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "kb",
				Aliases: []string{"d"},
				Usage:   "Path to the BadgerDB knowledge base directory",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Knowledge base backend (badger, neo4j)",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of records written per batch",
				Value: 1000,
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Reimport files that a previous run already finished",
			},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error {
			return seedCommand(c, out)
		},
	}
}

func seedCommand(c *cli.Context, out io.Writer) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("wordnet dict directory is required")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("kb") {
		cfg.Lexicon.Path = c.String("kb")
	}
	if c.IsSet("backend") {
		cfg.Lexicon.Backend = c.String("backend")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	kb, err := topicrank.OpenKnowledgeBase(c.Context, cfg, true, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	importer, err := wordnet.NewImporter(kb.Store,
		wordnet.WithCheckpoints(kb.Checkpoints),
		wordnet.WithBatchSize(c.Int("batch-size")),
		wordnet.WithForce(c.Bool("force")),
		wordnet.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "WordNet: %s\n", dir)
	fmt.Fprintf(out, "Backend: %s\n", cfg.Lexicon.Backend)
	if cfg.Lexicon.Backend == config.BackendBadger {
		fmt.Fprintf(out, "Knowledge base: %s\n", cfg.Lexicon.Path)
	}
	fmt.Fprintln(out)

	stats, err := importer.ImportDir(c.Context, dir)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(out, "Concepts: %d\n", stats.Concepts)
	fmt.Fprintf(out, "Senses: %d\n", stats.Senses)
	if len(stats.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped (already imported): %s\n", strings.Join(stats.Skipped, ", "))
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	level, err := config.ParseLogLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	return nil
}
