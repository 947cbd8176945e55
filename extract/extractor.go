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
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
)

// Extractor turns a URL into the sentences of its main content.
// Implementations must be safe for concurrent use.
type Extractor interface {
	Extract(ctx context.Context, url string) ([]string, error)
}

var (
	// ErrFetchFailed indicates a non-2xx response or transport failure.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUnsupportedContent indicates a response that is neither HTML nor plain text.
	ErrUnsupportedContent = errors.New("unsupported content type")
)

const (
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 20 * time.Second

	// DefaultMaxBytes caps the size of a response body.
	DefaultMaxBytes = 5 << 20

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "topicrank/1.0 (+https://github.com/poiesic/topicrank)"
)

// WebExtractor fetches pages over HTTP and extracts their main text.
type WebExtractor struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	logger    *slog.Logger
}

// Option configures a WebExtractor.
type Option func(*WebExtractor) error

// WithHTTPClient replaces the HTTP client. Its Timeout bounds each fetch.
func WithHTTPClient(client *http.Client) Option {
	return func(e *WebExtractor) error {
		if client == nil {
			return errors.New("http client is nil")
		}
		e.client = client
		return nil
	}
}

// WithTimeout sets the fetch timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(e *WebExtractor) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", timeout)
		}
		e.client.Timeout = timeout
		return nil
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(e *WebExtractor) error {
		e.userAgent = ua
		return nil
	}
}

// WithMaxBytes caps the response body size. Longer bodies are truncated.
func WithMaxBytes(n int64) Option {
	return func(e *WebExtractor) error {
		if n <= 0 {
			return fmt.Errorf("max bytes must be positive, got %d", n)
		}
		e.maxBytes = n
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *WebExtractor) error {
		e.logger = logger
		return nil
	}
}

// NewWebExtractor creates a WebExtractor.
func NewWebExtractor(opts ...Option) (*WebExtractor, error) {
	e := &WebExtractor{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxBytes,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "extract")
	return e, nil
}

// Extract fetches url and returns the sentences of its main content.
// HTML is stripped of boilerplate first; plain text is split as is.
func (e *WebExtractor) Extract(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, url, err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html, text/plain;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetchFailed, url, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, e.maxBytes)
	var text string
	switch mediaType(resp.Header.Get("Content-Type")) {
	case "text/html", "application/xhtml+xml", "":
		text, err = MainText(body)
	case "text/plain":
		var raw []byte
		raw, err = io.ReadAll(body)
		text = string(raw)
	default:
		return nil, fmt.Errorf("%w: %s: %s", ErrUnsupportedContent, url, resp.Header.Get("Content-Type"))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, url, err)
	}

	sentences := SplitSentences(text)
	e.logger.Debug("extracted page", "url", url, "bytes", len(text), "sentences", len(sentences))
	return sentences, nil
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mt
}
