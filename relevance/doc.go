// Package relevance scores documents against a query by comparing their
// expanded noun and verb chains.
//
// The noun ratio uses the smaller chain as denominator so that a short
// query fully covered by a long document scores 1. The verb ratio is the
// Jaccard index. A document's score is the larger of the two.
package relevance
