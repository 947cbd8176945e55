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

package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/expansion"
	"github.com/poiesic/topicrank/extract"
	"github.com/poiesic/topicrank/lexicon"
	"github.com/poiesic/topicrank/pipeline"
	"github.com/poiesic/topicrank/record"
	"github.com/poiesic/topicrank/relevance"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 1 << 20

// API holds the dependencies of the HTTP handlers.
type API struct {
	engine   *expansion.Engine
	pipeline *pipeline.Pipeline
	codec    *record.Codec
	policy   relevance.Policy
	logger   *slog.Logger
}

// Option configures an API.
type Option func(*API) error

// WithPolicy sets the default undefined-score policy for /v1/score.
func WithPolicy(policy relevance.Policy) Option {
	return func(a *API) error {
		a.policy = policy
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) error {
		if logger != nil {
			a.logger = logger
		}
		return nil
	}
}

// NewAPI creates the handler set. The query marker is taken from the pipeline's codec.
func NewAPI(engine *expansion.Engine, p *pipeline.Pipeline, opts ...Option) (*API, error) {
	if engine == nil {
		return nil, pipeline.ErrEngineRequired
	}
	if p == nil {
		return nil, errors.New("pipeline is required")
	}
	a := &API{
		engine:   engine,
		pipeline: p,
		codec:    p.Codec(),
		policy:   relevance.PolicyNaN,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	a.logger = a.logger.With("component", "api")
	return a, nil
}

// NewRouter returns a gin engine with middleware and all routes installed.
func NewRouter(a *API) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(a.logger), RequestSizeLimitMiddleware(DefaultMaxBodyBytes))
	SetupRoutes(router, a)
	return router
}

// SetupRoutes registers the API routes on router.
func SetupRoutes(router *gin.Engine, a *API) {
	router.GET("/health", a.HealthHandler)

	v1 := router.Group("/v1")
	{
		v1.POST("/expand", a.ExpandHandler)
		v1.POST("/score", a.ScoreHandler)
	}
}

// HealthHandler reports liveness.
func (a *API) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ChainBody is a noun/verb keyword chain.
type ChainBody struct {
	Nouns []string `json:"nouns"`
	Verbs []string `json:"verbs"`
}

// ExpandHandler expands a chain.
// Request Body: ChainBody. Response: ChainBody.
func (a *API) ExpandHandler(c *gin.Context) {
	var req ChainBody
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "invalid request body: "+err.Error())
		return
	}
	chain := core.DocumentChain{Nouns: cleanTerms(req.Nouns), Verbs: cleanTerms(req.Verbs)}
	if len(chain.Nouns) == 0 && len(chain.Verbs) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "at least one noun or verb is required")
		return
	}

	expanded, err := a.engine.ExpandChain(c.Request.Context(), chain)
	if err != nil {
		a.sendExpansionError(c, err)
		return
	}
	c.JSON(http.StatusOK, ChainBody{Nouns: nonNil(expanded.Nouns), Verbs: nonNil(expanded.Verbs)})
}

// DocumentBody is one document to score. Sentences win over Text when both are given.
type DocumentBody struct {
	Source    string   `json:"source"`
	Sentences []string `json:"sentences,omitempty"`
	Text      string   `json:"text,omitempty"`
}

// ScoreRequest is the body of /v1/score.
type ScoreRequest struct {
	Query     string         `json:"query"`
	Documents []DocumentBody `json:"documents"`
	Policy    string         `json:"policy,omitempty"`
}

// ScoreResult is one document's score. Score is null when undefined.
type ScoreResult struct {
	Source string   `json:"source"`
	Score  *float64 `json:"score"`
}

// ScoreResponse is the body of a successful /v1/score call.
type ScoreResponse struct {
	RunID  string        `json:"run_id"`
	Query  ChainBody     `json:"query"`
	Scores []ScoreResult `json:"scores"`
	Errors []string      `json:"errors,omitempty"`
}

// ScoreHandler tags, expands and scores documents against the query text.
// Documents that fail are reported in Errors with an undefined score.
func (a *API) ScoreHandler(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "query is required")
		return
	}
	if len(req.Documents) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "at least one document is required")
		return
	}
	policy := a.policy
	if req.Policy != "" {
		var err error
		if policy, err = relevance.ParsePolicy(req.Policy); err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
			return
		}
	}

	records := make([]record.SentenceRecord, 0, len(req.Documents)+1)
	records = append(records, record.SentenceRecord{
		Source:    a.codec.QueryMarker(),
		Sentences: []string{req.Query},
	})
	for i, doc := range req.Documents {
		if strings.TrimSpace(doc.Source) == "" {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, fmt.Sprintf("documents[%d]: source is required", i))
			return
		}
		if a.codec.IsQuery(doc.Source) {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
				fmt.Sprintf("documents[%d]: source must not contain %q", i, a.codec.QueryMarker()))
			return
		}
		sentences := doc.Sentences
		if len(sentences) == 0 {
			sentences = extract.SplitSentences(doc.Text)
		}
		records = append(records, record.SentenceRecord{Source: doc.Source, Sentences: sentences})
	}

	result, err := a.pipeline.Run(c.Request.Context(), records)
	if result == nil {
		a.sendExpansionError(c, err)
		return
	}

	resp := ScoreResponse{
		RunID: result.RunID,
		Query: ChainBody{
			Nouns: nonNil(result.Documents[0].Chain.Nouns),
			Verbs: nonNil(result.Documents[0].Chain.Verbs),
		},
		Scores: make([]ScoreResult, 0, len(result.Scores)),
	}
	for _, r := range relevance.ApplyPolicy(result.Scores, policy) {
		sr := ScoreResult{Source: r.Source}
		if r.Score.Defined {
			v := r.Score.Value
			sr.Score = &v
		}
		resp.Scores = append(resp.Scores, sr)
	}
	if err != nil {
		resp.Errors = splitJoined(err)
	}
	c.JSON(http.StatusOK, resp)
}

func (a *API) sendExpansionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, expansion.ErrNotConverged):
		SendError(c, http.StatusUnprocessableEntity, ErrorCodeNotConverged, err.Error())
	case errors.Is(err, lexicon.ErrUnavailable):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeUnavailable, "knowledge base unavailable")
	default:
		sendInternalError(c, a.logger, "expansion", err)
	}
}

func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func nonNil(terms []string) []string {
	if terms == nil {
		return []string{}
	}
	return terms
}

// splitJoined flattens an errors.Join tree into messages.
func splitJoined(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, splitJoined(e)...)
		}
		return msgs
	}
	return []string{err.Error()}
}
