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

import (
	"fmt"
	"strings"

	"github.com/poiesic/topicrank/ai"
)

const taggingResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "tokens": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {"type": "string"},
          "tag": {"type": "string"},
          "lemma": {"type": "string", "pattern": "^[a-z0-9_'-]+$"}
        },
        "required": ["text", "tag", "lemma"],
        "additionalProperties": false
      }
    }
  },
  "required": ["tokens"],
  "additionalProperties": false
}`

const taggingPromptTemplate = `Tag every word of the given sentence with its part of speech and return the result as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Emit one token per word, in sentence order. Skip punctuation.
- The tag field must be exactly one of these Penn Treebank tags: %s.
- The lemma is the lowercase dictionary form: singular for nouns, infinitive for verbs.
- Keep the text field exactly as the word appears in the sentence.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Armstrong walked on the moon."
Output:
{
  "tokens": [
    {"text":"Armstrong","tag":"NNP","lemma":"armstrong"},
    {"text":"walked","tag":"VBD","lemma":"walk"},
    {"text":"on","tag":"IN","lemma":"on"},
    {"text":"the","tag":"DT","lemma":"the"},
    {"text":"moon","tag":"NN","lemma":"moon"}
  ]
}

Example (informal, no punctuation):
Input: "astronauts are landing rockets"
Output:
{
  "tokens": [
    {"text":"astronauts","tag":"NNS","lemma":"astronaut"},
    {"text":"are","tag":"VBP","lemma":"be"},
    {"text":"landing","tag":"VBG","lemma":"land"},
    {"text":"rockets","tag":"NNS","lemma":"rocket"}
  ]
}`

// buildSystemPrompt creates the system prompt with the tag set embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(taggingPromptTemplate,
		taggingResponseSchema,
		strings.Join(ai.PennTags, ", "))
}
