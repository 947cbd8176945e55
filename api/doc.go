// Package api exposes term expansion and relevance scoring over HTTP.
//
// Routes:
//
//	GET  /health       liveness check
//	POST /v1/expand    expand a noun/verb chain through the knowledge base
//	POST /v1/score     tag, expand and score documents against a query
//
// Every response carries an X-Request-ID header. Errors use the ErrorResponse shape.
package api
