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

package record

import (
	"github.com/poiesic/topicrank/core"
)

// Document is the pair of chains recorded for one source.
type Document struct {
	Source string
	Chain  core.DocumentChain
}

// Group assembles consecutive feature records into documents.
// A new document starts when the source changes or when the current
// document already holds a record for the same POS, so repeated sources
// stay separate documents. Document order follows the input.
func Group(records []FeatureRecord) []Document {
	var docs []Document
	var seen map[core.POS]bool
	for _, rec := range records {
		last := len(docs) - 1
		if last < 0 || docs[last].Source != rec.Source || seen[rec.POS] {
			docs = append(docs, Document{Source: rec.Source})
			seen = make(map[core.POS]bool, 2)
			last++
		}
		seen[rec.POS] = true
		docs[last].Chain = docs[last].Chain.WithTerms(rec.POS, rec.Terms)
	}
	return docs
}

// Records flattens documents into feature records, VERB before NOUN for each document.
func Records(docs []Document) []FeatureRecord {
	records := make([]FeatureRecord, 0, 2*len(docs))
	for _, d := range docs {
		records = append(records,
			FeatureRecord{Source: d.Source, POS: core.POSVerb, Terms: d.Chain.Verbs},
			FeatureRecord{Source: d.Source, POS: core.POSNoun, Terms: d.Chain.Nouns},
		)
	}
	return records
}

// Partition separates query documents from the rest, preserving order in both.
func (c *Codec) Partition(docs []Document) (queries, rest []Document) {
	for _, d := range docs {
		if c.IsQuery(d.Source) {
			queries = append(queries, d)
		} else {
			rest = append(rest, d)
		}
	}
	return queries, rest
}

// Chains returns the chain of every document.
func Chains(docs []Document) []core.DocumentChain {
	chains := make([]core.DocumentChain, len(docs))
	for i, d := range docs {
		chains[i] = d.Chain
	}
	return chains
}
