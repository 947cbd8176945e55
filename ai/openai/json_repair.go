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

package openai

// repairJSON fixes the formatting mistakes small models make most often
// when emitting token lists: a missing opening quote before a key
// (`{text": "moon"`) and a trailing comma before a closing bracket.
func repairJSON(s string) string {
	return dropTrailingCommas(quoteKeys(s))
}

// quoteKeys adds the opening quote to keys written as `word":`.
func quoteKeys(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)

	i := 0
	for i < len(in) {
		ch := in[i]
		out = append(out, ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(in) && isSpace(in[i]) {
			out = append(out, in[i])
			i++
		}
		if i >= len(in) || !isLetter(in[i]) {
			continue
		}

		start := i
		for i < len(in) && (isLetter(in[i]) || in[i] == '_') {
			i++
		}
		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			out = append(out, '"')
		}
		out = append(out, in[start:i]...)
	}
	return string(out)
}

// dropTrailingCommas removes a comma followed only by whitespace and a
// closing brace or bracket. Commas inside strings are left alone.
func dropTrailingCommas(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in))
	inString, escaped := false, false

	for i, ch := range in {
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == ',' && closesNext(in[i+1:]):
			continue
		}
		out = append(out, ch)
	}
	return string(out)
}

func closesNext(rest []rune) bool {
	for _, r := range rest {
		if isSpace(r) {
			continue
		}
		return r == '}' || r == ']'
	}
	return false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
