// Package wordnet imports Princeton WordNet database files into a lexical knowledge base.
//
// Only nouns and verbs are imported. Each synset in data.noun and data.verb
// becomes a core.Concept keyed by a hash of its POS and byte offset, with its
// hypernym, hyponym, holonym and meronym pointers as relations. Each line of
// index.noun and index.verb becomes a core.Sense listing the lemma's synsets
// in sense-rank order.
package wordnet
