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

package wordnet

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/topicrank/core"
)

// pointerKinds maps WordNet pointer symbols to relation kinds.
// Instance hypernyms/hyponyms, entailment, cause and the adjective and
// adverb pointers are not part of expansion and are dropped.
var pointerKinds = map[string]core.RelationKind{
	"@":  core.RelationHypernym,
	"~":  core.RelationHyponym,
	"#m": core.RelationHolonymMember,
	"#p": core.RelationHolonymPart,
	"#s": core.RelationHolonymSubstance,
	"%m": core.RelationMeronymMember,
	"%p": core.RelationMeronymPart,
	"%s": core.RelationMeronymSubstance,
}

// ConceptID derives the concept ID of a synset from its POS and byte offset.
func ConceptID(pos core.POS, offset string) core.ID {
	return core.IDFromContent(posLetter(pos) + ":" + offset)
}

func posLetter(pos core.POS) string {
	switch pos {
	case core.POSNoun:
		return "n"
	case core.POSVerb:
		return "v"
	default:
		return "?"
	}
}

func posFromLetter(letter string) (core.POS, bool) {
	switch letter {
	case "n":
		return core.POSNoun, true
	case "v":
		return core.POSVerb, true
	default:
		return 0, false
	}
}

// isHeader reports whether line belongs to the license preamble of a database file.
func isHeader(line string) bool {
	return strings.HasPrefix(line, "  ") || strings.TrimSpace(line) == ""
}

// ParseDataLine parses one line of a data.<pos> file.
// ok is false for license lines and synsets of other parts of speech.
func ParseDataLine(line string) (concept *core.Concept, ok bool, err error) {
	if isHeader(line) {
		return nil, false, nil
	}
	if i := strings.Index(line, " | "); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, false, fmt.Errorf("%w: too few fields", ErrMalformedLine)
	}

	pos, known := posFromLetter(fields[2])
	if !known {
		return nil, false, nil
	}

	wordCount, err := strconv.ParseInt(fields[3], 16, 32)
	if err != nil {
		return nil, false, fmt.Errorf("%w: word count %q", ErrMalformedLine, fields[3])
	}
	cursor := 4
	if len(fields) < cursor+int(wordCount)*2+1 {
		return nil, false, fmt.Errorf("%w: truncated word list", ErrMalformedLine)
	}

	concept = &core.Concept{
		Id:  ConceptID(pos, fields[0]),
		POS: pos,
	}
	seen := make(map[string]struct{}, wordCount)
	for i := 0; i < int(wordCount); i++ {
		lemma := normalizeWord(fields[cursor])
		cursor += 2
		if _, dup := seen[lemma]; dup {
			continue
		}
		seen[lemma] = struct{}{}
		concept.Members = append(concept.Members, lemma)
	}

	pointerCount, err := strconv.Atoi(fields[cursor])
	if err != nil {
		return nil, false, fmt.Errorf("%w: pointer count %q", ErrMalformedLine, fields[cursor])
	}
	cursor++
	if len(fields) < cursor+pointerCount*4 {
		return nil, false, fmt.Errorf("%w: truncated pointer list", ErrMalformedLine)
	}

	for i := 0; i < pointerCount; i++ {
		symbol, offset, targetLetter := fields[cursor], fields[cursor+1], fields[cursor+2]
		cursor += 4

		kind, wanted := pointerKinds[symbol]
		if !wanted {
			continue
		}
		targetPOS, known := posFromLetter(targetLetter)
		if !known || targetPOS != pos {
			continue
		}
		target := ConceptID(targetPOS, offset)
		if concept.Relations == nil {
			concept.Relations = make(map[core.RelationKind][]core.ID)
		}
		if !slices.Contains(concept.Relations[kind], target) {
			concept.Relations[kind] = append(concept.Relations[kind], target)
		}
	}

	return concept, true, nil
}

// ParseIndexLine parses one line of an index.<pos> file.
// ok is false for license lines.
func ParseIndexLine(line string) (sense *core.Sense, ok bool, err error) {
	if isHeader(line) {
		return nil, false, nil
	}
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return nil, false, fmt.Errorf("%w: too few fields", ErrMalformedLine)
	}

	pos, known := posFromLetter(fields[1])
	if !known {
		return nil, false, nil
	}

	synsetCount, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, false, fmt.Errorf("%w: synset count %q", ErrMalformedLine, fields[2])
	}
	pointerCount, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, false, fmt.Errorf("%w: pointer count %q", ErrMalformedLine, fields[3])
	}
	// lemma pos synset_cnt p_cnt [ptr_symbol...] sense_cnt tagsense_cnt offsets...
	cursor := 4 + pointerCount + 2
	if len(fields) < cursor+synsetCount {
		return nil, false, fmt.Errorf("%w: truncated offset list", ErrMalformedLine)
	}

	sense = &core.Sense{
		Term:     core.Term{Lemma: normalizeWord(fields[0]), POS: pos},
		Concepts: make([]core.ID, 0, synsetCount),
	}
	for _, offset := range fields[cursor : cursor+synsetCount] {
		sense.Concepts = append(sense.Concepts, ConceptID(pos, offset))
	}
	return sense, true, nil
}

// normalizeWord lowercases a data-file word and strips adjective markers such as "(a)".
func normalizeWord(word string) string {
	if i := strings.IndexByte(word, '('); i > 0 {
		word = word[:i]
	}
	return strings.ToLower(word)
}
