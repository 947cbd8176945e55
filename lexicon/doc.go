// Package lexicon defines the lexical knowledge base used for term expansion.
//
// A knowledge base maps lemmas to concepts (word senses), concepts to related
// concepts through typed relations, and concepts back to their member lemmas.
// The read side is the Graph interface; importers write through Loader.
//
// # Implementations
//
//   - lexicon/badger: embedded store, also available in-memory for tests
//   - lexicon/neo4j: remote graph database
//   - lexicon/cache: Redis read-through cache wrapping any Graph
//
// # Lookup semantics
//
// A lemma the knowledge base does not know is not an error. PrimaryConcept
// reports ok=false and expansion simply skips the term. Errors are reserved
// for storage failures.
//
// # Encoding
//
// Concepts, senses, ID lists and lemma lists are encoded with mus-go
// varint and string serializers. Relations are written in
// core.DefaultRelationOrder so that identical concepts encode identically.
//
// # Thread Safety
//
// All Graph implementations must be safe for concurrent reads. Wrap a graph
// with WithTimeout to bound each call.
package lexicon
