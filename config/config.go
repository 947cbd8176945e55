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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/topicrank/ai"
	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/expansion"
	lexneo4j "github.com/poiesic/topicrank/lexicon/neo4j"
	"github.com/poiesic/topicrank/record"
	"github.com/poiesic/topicrank/relevance"
	"gopkg.in/yaml.v3"
)

// Knowledge base backends.
const (
	BackendBadger = "badger"
	BackendNeo4j  = "neo4j"
)

type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
	Expansion ExpansionConfig `yaml:"expansion"`
	Records   RecordConfig    `yaml:"records"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Tagger    TaggerConfig    `yaml:"tagger"`
	Extract   ExtractConfig   `yaml:"extract"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Server    ServerConfig    `yaml:"server"`
}

type LexiconConfig struct {
	Backend string        `yaml:"backend"`
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
	Neo4j   Neo4jConfig   `yaml:"neo4j"`
	Redis   RedisConfig   `yaml:"redis"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig enables the knowledge base cache when Addr is set.
type RedisConfig struct {
	Addr   string        `yaml:"addr"`
	Prefix string        `yaml:"prefix"`
	TTL    time.Duration `yaml:"ttl"`
}

type ExpansionConfig struct {
	KnowledgeLimit float64  `yaml:"knowledge_limit"`
	MaxRounds      int      `yaml:"max_rounds"`
	Relations      []string `yaml:"relations"`
}

type RecordConfig struct {
	Delimiter   string `yaml:"delimiter"`
	QueryMarker string `yaml:"query_marker"`
}

type ScoringConfig struct {
	// Policy is how undefined scores are reported: nan, zero or exclude.
	Policy string `yaml:"policy"`
}

type TaggerConfig struct {
	Host        string        `yaml:"host"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
}

type ExtractConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
	UserAgent   string        `yaml:"user_agent"`
	MaxBytes    int64         `yaml:"max_bytes"`
}

type PipelineConfig struct {
	PoolSize       int           `yaml:"pool_size"`
	RetryAttempts  int           `yaml:"retry_attempts"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	exp := expansion.DefaultConfig()
	relations := make([]string, len(exp.Relations))
	for i, kind := range exp.Relations {
		relations[i] = kind.String()
	}
	tagger := ai.DefaultConfig()

	return &Config{
		LogLevel: "info",
		Lexicon: LexiconConfig{
			Backend: BackendBadger,
			Path:    "topicrank.kb",
			Timeout: 5 * time.Second,
			Neo4j:   Neo4jConfig{User: "neo4j"},
			Redis:   RedisConfig{Prefix: "topicrank:kb:", TTL: 24 * time.Hour},
		},
		Expansion: ExpansionConfig{
			KnowledgeLimit: exp.KnowledgeLimit,
			MaxRounds:      exp.MaxRounds,
			Relations:      relations,
		},
		Records: RecordConfig{
			Delimiter:   record.DefaultDelimiter,
			QueryMarker: record.DefaultQueryMarker,
		},
		Scoring: ScoringConfig{Policy: relevance.PolicyNaN.String()},
		Tagger: TaggerConfig{
			Host:        tagger.Host,
			Model:       tagger.Model,
			APIKey:      tagger.APIKey,
			Timeout:     tagger.Timeout,
			MaxAttempts: tagger.MaxAttempts,
		},
		Extract: ExtractConfig{
			Timeout:     20 * time.Second,
			Concurrency: 4,
			MaxBytes:    5 << 20,
		},
		Pipeline: PipelineConfig{
			RetryAttempts:  3,
			RetryBaseDelay: 500 * time.Millisecond,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load builds a Config from the defaults, the YAML file at path (optional when
// empty) and the environment. A .env file in the working directory is loaded first
// if present; variables already set in the environment take precedence over it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrReadConfig, path, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays YAML onto c. Unknown keys are rejected.
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnv("TOPICRANK_LOG_LEVEL", c.LogLevel)
	c.Lexicon.Backend = getEnv("TOPICRANK_KB_BACKEND", c.Lexicon.Backend)
	c.Lexicon.Path = getEnv("TOPICRANK_KB_PATH", c.Lexicon.Path)
	c.Lexicon.Neo4j.URI = getEnv("NEO4J_URI", c.Lexicon.Neo4j.URI)
	c.Lexicon.Neo4j.User = getEnv("NEO4J_USER", c.Lexicon.Neo4j.User)
	c.Lexicon.Neo4j.Password = getEnv("NEO4J_PASSWORD", c.Lexicon.Neo4j.Password)
	c.Lexicon.Neo4j.Database = getEnv("NEO4J_DATABASE", c.Lexicon.Neo4j.Database)
	c.Lexicon.Redis.Addr = getEnv("REDIS_ADDR", c.Lexicon.Redis.Addr)
	c.Tagger.Host = getEnv("TOPICRANK_TAGGER_HOST", c.Tagger.Host)
	c.Tagger.Model = getEnv("TOPICRANK_TAGGER_MODEL", c.Tagger.Model)
	c.Tagger.APIKey = getEnv("TOPICRANK_TAGGER_API_KEY", c.Tagger.APIKey)
	c.Tagger.MaxAttempts = getEnvInt("TOPICRANK_TAGGER_MAX_ATTEMPTS", c.Tagger.MaxAttempts)
	c.Extract.Concurrency = getEnvInt("TOPICRANK_FETCH_CONCURRENCY", c.Extract.Concurrency)
	c.Pipeline.PoolSize = getEnvInt("TOPICRANK_POOL_SIZE", c.Pipeline.PoolSize)
	c.Server.Addr = getEnv("TOPICRANK_SERVER_ADDR", c.Server.Addr)
}

// Validate checks every section and reports the first problem found.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.Lexicon.Backend {
	case BackendBadger:
		if c.Lexicon.Path == "" {
			return fmt.Errorf("%w: lexicon.path is required for the badger backend", ErrInvalidConfig)
		}
	case BackendNeo4j:
		if c.Lexicon.Neo4j.URI == "" {
			return fmt.Errorf("%w: lexicon.neo4j.uri is required for the neo4j backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown lexicon backend %q", ErrInvalidConfig, c.Lexicon.Backend)
	}
	if c.Lexicon.Timeout < 0 {
		return fmt.Errorf("%w: lexicon.timeout must not be negative", ErrInvalidConfig)
	}

	exp, err := c.ExpansionConfig()
	if err != nil {
		return err
	}
	if err := exp.Validate(); err != nil {
		return err
	}
	if _, err := c.Codec(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if err := c.TaggerConfig().Validate(); err != nil {
		return err
	}

	if c.Extract.Concurrency < 1 {
		return fmt.Errorf("%w: extract.concurrency must be at least 1", ErrInvalidConfig)
	}
	if c.Extract.Timeout <= 0 {
		return fmt.Errorf("%w: extract.timeout must be positive", ErrInvalidConfig)
	}
	if c.Extract.MaxBytes <= 0 {
		return fmt.Errorf("%w: extract.max_bytes must be positive", ErrInvalidConfig)
	}
	if c.Pipeline.PoolSize < 0 {
		return fmt.Errorf("%w: pipeline.pool_size must not be negative", ErrInvalidConfig)
	}
	if c.Pipeline.RetryAttempts < 1 {
		return fmt.Errorf("%w: pipeline.retry_attempts must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// ExpansionConfig converts the expansion section, resolving relation names.
func (c *Config) ExpansionConfig() (expansion.Config, error) {
	kinds := make([]core.RelationKind, 0, len(c.Expansion.Relations))
	for _, name := range c.Expansion.Relations {
		kind, err := core.ParseRelationKind(name)
		if err != nil {
			return expansion.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		kinds = append(kinds, kind)
	}
	return expansion.Config{
		KnowledgeLimit: c.Expansion.KnowledgeLimit,
		MaxRounds:      c.Expansion.MaxRounds,
		Relations:      kinds,
	}, nil
}

// Codec builds the record codec for the configured delimiter and query marker.
func (c *Config) Codec() (*record.Codec, error) {
	return record.NewCodec(
		record.WithDelimiter(c.Records.Delimiter),
		record.WithQueryMarker(c.Records.QueryMarker),
	)
}

// Policy returns the undefined-score policy.
func (c *Config) Policy() (relevance.Policy, error) {
	return relevance.ParsePolicy(c.Scoring.Policy)
}

// TaggerConfig returns a fresh ai.Config for the tagger section.
func (c *Config) TaggerConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.Tagger.Host),
		ai.WithModel(c.Tagger.Model),
		ai.WithAPIKey(c.Tagger.APIKey),
		ai.WithTimeout(c.Tagger.Timeout),
		ai.WithMaxAttempts(c.Tagger.MaxAttempts),
	)
}

// Neo4jConfig returns connection settings for the neo4j backend.
func (c *Config) Neo4jConfig() lexneo4j.Config {
	return lexneo4j.Config{
		URI:      c.Lexicon.Neo4j.URI,
		User:     c.Lexicon.Neo4j.User,
		Password: c.Lexicon.Neo4j.Password,
		Database: c.Lexicon.Neo4j.Database,
		Timeout:  c.Lexicon.Timeout,
	}
}

// ParseLogLevel converts a level name into a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: invalid log level %q (must be debug, info, warn, or error)", ErrInvalidConfig, level)
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
