// Package record reads and writes the line-oriented files passed between
// the stages of a run.
//
// Every line is a list of fields joined by a delimiter (a backtick by
// default). The first field is the source, a URL or a query marker.
//
//	https://example.com/moon`Neil Armstrong walked on the moon.`He was first.
//	https://example.com/moon`VERB`walk`be
//	https://example.com/moon`NOUN`armstrong`moon
//
// Sentence files carry a source and its sentences. Feature files carry a
// source, a POS and its terms; a document is written as its VERB line
// followed by its NOUN line. Score files carry one number per line.
package record
