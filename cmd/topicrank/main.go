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
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/poiesic/topicrank/config"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "topicrank",
		Usage: "Rank web documents by topical relevance to a query",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
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
			&cli.StringFlag{
				Name:  "tagger-host",
				Usage: "Tagging service host URL",
			},
			&cli.StringFlag{
				Name:  "tagger-model",
				Usage: "Tagging model name",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Download pages and split their main text into sentence records",
				Action: fetchCommand,
				Flags: []cli.Flag{
					inputFlag(),
					outputFlag(),
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of pages fetched at once (0 uses the configured value)",
					},
				},
			},
			{
				Name:   "parse",
				Usage:  "Tag sentence records and write each document's dominant chain",
				Action: parseCommand,
				Flags:  []cli.Flag{inputFlag(), outputFlag(), progressFlag()},
			},
			{
				Name:   "expand",
				Usage:  "Expand feature records through the knowledge base",
				Action: expandCommand,
				Flags:  []cli.Flag{inputFlag(), outputFlag(), progressFlag()},
			},
			{
				Name:   "score",
				Usage:  "Score expanded feature records against the query records",
				Action: scoreCommand,
				Flags: []cli.Flag{
					inputFlag(),
					outputFlag(),
					&cli.StringFlag{
						Name:  "policy",
						Usage: "How undefined scores are written (nan, zero, exclude)",
					},
				},
			},
			{
				Name:   "run",
				Usage:  "Fetch, parse, expand and score a list of URLs and query lines",
				Action: runCommand,
				Flags: []cli.Flag{
					inputFlag(),
					outputFlag(),
					progressFlag(),
					&cli.StringFlag{
						Name:  "documents",
						Usage: "Also write the expanded feature records to this file",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of pages fetched at once (0 uses the configured value)",
					},
					&cli.StringFlag{
						Name:  "policy",
						Usage: "How undefined scores are written (nan, zero, exclude)",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve expansion and scoring over HTTP",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (empty uses the configured value)",
					},
				},
			},
		},
	}
}

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "Input file (- for stdin)",
		Value:   "-",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file (- for stdout)",
		Value:   "-",
	}
}

func progressFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "progress",
		Usage: "Report per-stage progress on stderr",
	}
}

// setup loads the configuration, applies the global flags and installs the logger.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("kb") {
		cfg.Lexicon.Path = c.String("kb")
	}
	if c.IsSet("backend") {
		cfg.Lexicon.Backend = c.String("backend")
	}
	if c.IsSet("tagger-host") {
		cfg.Tagger.Host = c.String("tagger-host")
	}
	if c.IsSet("tagger-model") {
		cfg.Tagger.Model = c.String("tagger-model")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func appConfig(c *cli.Context) (*config.Config, error) {
	cfg, ok := c.App.Metadata[configKey].(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}
