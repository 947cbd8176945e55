package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/expansion"
	"github.com/poiesic/topicrank/relevance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"TOPICRANK_LOG_LEVEL",
	"TOPICRANK_KB_BACKEND",
	"TOPICRANK_KB_PATH",
	"TOPICRANK_TAGGER_HOST",
	"TOPICRANK_TAGGER_MODEL",
	"TOPICRANK_TAGGER_API_KEY",
	"TOPICRANK_TAGGER_MAX_ATTEMPTS",
	"TOPICRANK_FETCH_CONCURRENCY",
	"TOPICRANK_POOL_SIZE",
	"TOPICRANK_SERVER_ADDR",
	"NEO4J_URI",
	"NEO4J_USER",
	"NEO4J_PASSWORD",
	"NEO4J_DATABASE",
	"REDIS_ADDR",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topicrank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	exp, err := cfg.ExpansionConfig()
	require.NoError(t, err)
	assert.Equal(t, expansion.DefaultConfig(), exp)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, relevance.PolicyNaN, policy)

	codec, err := cfg.Codec()
	require.NoError(t, err)
	assert.Equal(t, "`", codec.Delimiter())
	assert.Equal(t, "QUERY", codec.QueryMarker())
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
log_level: debug
lexicon:
  backend: neo4j
  timeout: 2s
  neo4j:
    uri: bolt://localhost:7687
    password: secret
  redis:
    addr: localhost:6379
expansion:
  knowledge_limit: 20
  relations: [self, hypernym, hyponym]
records:
  delimiter: "|"
  query_marker: Q
scoring:
  policy: exclude
tagger:
  model: gpt-4o-mini
extract:
  concurrency: 8
pipeline:
  pool_size: 2
  retry_base_delay: 100ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, BackendNeo4j, cfg.Lexicon.Backend)
	assert.Equal(t, 2*time.Second, cfg.Lexicon.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Lexicon.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Lexicon.Redis.TTL, "unset keys keep defaults")
	assert.Equal(t, 8, cfg.Extract.Concurrency)
	assert.Equal(t, 2, cfg.Pipeline.PoolSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Pipeline.RetryBaseDelay)
	assert.Equal(t, 3, cfg.Pipeline.RetryAttempts)

	neo := cfg.Neo4jConfig()
	assert.Equal(t, "bolt://localhost:7687", neo.URI)
	assert.Equal(t, "neo4j", neo.User)
	assert.Equal(t, "secret", neo.Password)
	assert.Equal(t, 2*time.Second, neo.Timeout)

	exp, err := cfg.ExpansionConfig()
	require.NoError(t, err)
	assert.Equal(t, 20.0, exp.KnowledgeLimit)
	assert.Equal(t, expansion.DefaultMaxRounds, exp.MaxRounds)
	assert.Equal(t, []core.RelationKind{core.RelationSelf, core.RelationHypernym, core.RelationHyponym}, exp.Relations)

	codec, err := cfg.Codec()
	require.NoError(t, err)
	assert.Equal(t, "|", codec.Delimiter())
	assert.True(t, codec.IsQuery("Q1"))

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, relevance.PolicyExclude, policy)

	tagger := cfg.TaggerConfig()
	assert.Equal(t, "gpt-4o-mini", tagger.Model)
	assert.Equal(t, "http://localhost:11434/v1", tagger.Host)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
lexicon:
  path: /data/from-file.kb
tagger:
  host: http://file-host:8000
`)
	t.Setenv("TOPICRANK_KB_PATH", "/data/from-env.kb")
	t.Setenv("TOPICRANK_TAGGER_HOST", "http://env-host:8000")
	t.Setenv("TOPICRANK_POOL_SIZE", "6")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/from-env.kb", cfg.Lexicon.Path)
	assert.Equal(t, "http://env-host:8000", cfg.Tagger.Host)
	assert.Equal(t, 6, cfg.Pipeline.PoolSize)
	assert.Equal(t, "cache:6379", cfg.Lexicon.Redis.Addr)
}

func TestLoad_BadIntegerEnvKeepsValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOPICRANK_FETCH_CONCURRENCY", "many")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Extract.Concurrency)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"unknown key", "lexicon:\n  engine: badger\n", ErrReadConfig},
		{"bad yaml", "lexicon: [\n", ErrReadConfig},
		{"bad duration", "lexicon:\n  timeout: soon\n", ErrReadConfig},
		{"unknown backend", "lexicon:\n  backend: sqlite\n", ErrInvalidConfig},
		{"neo4j without uri", "lexicon:\n  backend: neo4j\n", ErrInvalidConfig},
		{"unknown relation", "expansion:\n  relations: [self, antonym]\n", ErrInvalidConfig},
		{"duplicate relation", "expansion:\n  relations: [self, self]\n", expansion.ErrInvalidConfig},
		{"knowledge limit", "expansion:\n  knowledge_limit: 0.5\n", expansion.ErrInvalidConfig},
		{"policy", "scoring:\n  policy: ignore\n", relevance.ErrInvalidPolicy},
		{"concurrency", "extract:\n  concurrency: 0\n", ErrInvalidConfig},
		{"retry attempts", "pipeline:\n  retry_attempts: 0\n", ErrInvalidConfig},
		{"log level", "log_level: loud\n", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
