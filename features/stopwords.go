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

package features

import "strings"

const defaultStopWords = `i me my myself we us our ours ourselves you your yours yourself yourselves
he him his himself she her hers herself it its itself they them their theirs themselves
what which who whom this that these those am is are was were be been being
have has had having do does did doing will would shall should can could may might must ought
im youre hes shes its were theyre ive youve weve theyve id youd hed shed wed theyd
ill youll hell shell well theyll isnt arent wasnt werent hasnt havent hadnt doesnt dont didnt
wont wouldnt shant shouldnt cant cannot couldnt mustnt lets thats whos whats heres theres
whens wheres whys hows darent neednt oughtnt mightnt
a an the and but if or because as until while of at by for with about against between
into through during before after above below to from up down in out on off over under
again further then once here there when where why how all any both each few more most
other some such no nor not only own same so than too very every least less many now
ever never also just put whether since another however one two three four five
first second new old high long`

// StopWords is a set of lowercase words ignored during feature extraction.
type StopWords map[string]struct{}

// DefaultStopWords returns the built-in English stop-word list.
func DefaultStopWords() StopWords {
	return NewStopWords(strings.Fields(defaultStopWords))
}

// NewStopWords builds a set from words. Words are lowercased.
func NewStopWords(words []string) StopWords {
	s := make(StopWords, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// Contains reports whether word, compared case-insensitively and with
// apostrophes removed, is a stop word.
func (s StopWords) Contains(word string) bool {
	word = strings.ToLower(strings.ReplaceAll(word, "'", ""))
	_, ok := s[word]
	return ok
}
