// Package chaining groups the keyword sets of a document's sentences into
// lexical chains and picks the dominant chain as the document's topic.
package chaining
