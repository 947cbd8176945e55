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

package ai

import (
	"fmt"
	"strings"
	"time"
)

// Config holds configuration for the tagging service.
type Config struct {
	// Host is the base URL for the tagging service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	Host string

	// Model is the model identifier used for tagging.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	Model string

	// APIKey is sent as the bearer token. Local servers accept any value.
	APIKey string

	// Timeout bounds a single tagging request.
	// Default: 30s
	Timeout time.Duration

	// MaxAttempts is the number of times a malformed model response is retried.
	// Default: 3
	MaxAttempts int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the tagging service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the tagging model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxAttempts sets how often a malformed response is retried.
func WithMaxAttempts(n int) ConfigOption {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// DefaultConfig returns a Config with sensible defaults for a local OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Host:        "http://localhost:11434/v1",
		Model:       "qwen2.5:3b",
		APIKey:      "none",
		Timeout:     30 * time.Second,
		MaxAttempts: 3,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434"),
//	    WithModel("gpt-4o-mini"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
	if c.APIKey == "" {
		c.APIKey = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return fmt.Errorf("%w: Host is required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: Model is required", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: Timeout must be positive", ErrInvalidConfig)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: MaxAttempts must be at least 1", ErrInvalidConfig)
	}
	return nil
}
