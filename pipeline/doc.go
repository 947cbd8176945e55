// Package pipeline orchestrates a topicrank run: parsing sentences into
// dominant chains, expanding the chains and scoring documents against the
// query.
//
// Each stage processes documents concurrently on an ants worker pool and
// returns results in input order. Tagging failures are retried with
// exponential backoff. A document that still fails keeps an empty chain
// and its error is reported alongside the results.
package pipeline
