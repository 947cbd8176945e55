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

package badger

import (
	"encoding/binary"

	"github.com/poiesic/topicrank/core"
)

// Key prefixes for different data types
const (
	conceptPrefix    = "lexcon"
	sensePrefix      = "lexsns"
	checkpointPrefix = "lexchk"
)

// makeConceptKey generates a key for a concept by ID.
// Format: prefix:id
func makeConceptKey(id core.ID) []byte {
	prefix := conceptPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeSenseKey generates a composite key for the lemma index.
// Format: prefix:pos:lemma
func makeSenseKey(lemma string, pos core.POS) []byte {
	prefix := sensePrefix + ":"
	buf := make([]byte, len(prefix)+1+len(lemma))
	offset := copy(buf, prefix)
	buf[offset] = byte(pos)
	offset++
	copy(buf[offset:], lemma)
	return buf
}

// makeCheckpointKey generates a key for import checkpoints.
func makeCheckpointKey(source string) []byte {
	return []byte(checkpointPrefix + ":" + source)
}
