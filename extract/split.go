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

package extract

import (
	"strings"
	"unicode"
)

// sentenceEnd lists the runes that terminate a sentence.
const sentenceEnd = "!?."

// SplitSentences splits text into sentences.
//
// Letters and digits are kept, any whitespace becomes a single space and
// other punctuation is attached to the preceding word. A sentence ends at
// '!', '?' or '.'. Text after the last terminator is dropped, as are
// sentences without a letter or digit.
func SplitSentences(text string) []string {
	var sentences []string
	var sb strings.Builder
	hasWord := false

	for _, r := range text {
		switch {
		case strings.ContainsRune(sentenceEnd, r):
			s := strings.TrimSpace(sb.String()) + string(r)
			if hasWord {
				sentences = append(sentences, s)
			}
			sb.Reset()
			hasWord = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			hasWord = true
		case unicode.IsSpace(r):
			if n := sb.Len(); n > 0 && sb.String()[n-1] != ' ' {
				sb.WriteByte(' ')
			}
		default:
			s := strings.TrimRight(sb.String(), " ")
			sb.Reset()
			sb.WriteString(s)
			sb.WriteRune(r)
		}
	}
	return sentences
}
