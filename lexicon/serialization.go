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

package lexicon

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/topicrank/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalIDs serializes an ordered ID list to bytes.
func MarshalIDs(ids []core.ID) []byte {
	size := sizeUint(uint64(len(ids)))
	for _, id := range ids {
		size += sizeUint(uint64(id))
	}
	w := newWriter(size)
	w.putIDs(ids)
	return w.bs
}

// UnmarshalIDs deserializes an ordered ID list from bytes.
func UnmarshalIDs(data []byte) ([]core.ID, error) {
	r := &reader{bs: data}
	ids := r.ids()
	if r.err != nil {
		return nil, fmt.Errorf("%w: ids: %w", ErrSerializationFailed, r.err)
	}
	return ids, nil
}

// MarshalLemmas serializes an ordered lemma list to bytes.
func MarshalLemmas(lemmas []string) []byte {
	w := newWriter(sizeStrings(lemmas))
	w.putStrings(lemmas)
	return w.bs
}

// UnmarshalLemmas deserializes an ordered lemma list from bytes.
func UnmarshalLemmas(data []byte) ([]string, error) {
	r := &reader{bs: data}
	lemmas := r.strings()
	if r.err != nil {
		return nil, fmt.Errorf("%w: lemmas: %w", ErrSerializationFailed, r.err)
	}
	return lemmas, nil
}

// MarshalConcept serializes a Concept to bytes.
// Relations are written in core.DefaultRelationOrder so equal concepts encode identically.
func MarshalConcept(concept *core.Concept) []byte {
	kinds := presentRelations(concept)

	size := sizeUint(uint64(concept.Id)) + sizeUint(uint64(concept.POS)) + sizeStrings(concept.Members)
	size += sizeUint(uint64(len(kinds)))
	for _, kind := range kinds {
		ids := concept.Relations[kind]
		size += sizeUint(uint64(kind)) + sizeUint(uint64(len(ids)))
		for _, id := range ids {
			size += sizeUint(uint64(id))
		}
	}

	w := newWriter(size)
	w.putUint(uint64(concept.Id))
	w.putUint(uint64(concept.POS))
	w.putStrings(concept.Members)
	w.putUint(uint64(len(kinds)))
	for _, kind := range kinds {
		w.putUint(uint64(kind))
		w.putIDs(concept.Relations[kind])
	}
	return w.bs
}

// UnmarshalConcept deserializes a Concept from bytes.
func UnmarshalConcept(data []byte) (*core.Concept, error) {
	r := &reader{bs: data}
	concept := &core.Concept{
		Id:      core.ID(r.uint()),
		POS:     core.POS(r.uint()),
		Members: r.strings(),
	}
	n := r.count()
	if n > 0 {
		concept.Relations = make(map[core.RelationKind][]core.ID, n)
	}
	for i := 0; i < n && r.err == nil; i++ {
		kind := core.RelationKind(r.uint())
		concept.Relations[kind] = r.ids()
	}
	if r.err != nil {
		return nil, fmt.Errorf("%w: concept: %w", ErrSerializationFailed, r.err)
	}
	return concept, nil
}

// MarshalSense serializes a Sense to bytes.
func MarshalSense(sense *core.Sense) []byte {
	size := sizeString(sense.Lemma) + sizeUint(uint64(sense.POS)) + sizeUint(uint64(len(sense.Concepts)))
	for _, id := range sense.Concepts {
		size += sizeUint(uint64(id))
	}
	w := newWriter(size)
	w.putString(sense.Lemma)
	w.putUint(uint64(sense.POS))
	w.putIDs(sense.Concepts)
	return w.bs
}

// UnmarshalSense deserializes a Sense from bytes.
func UnmarshalSense(data []byte) (*core.Sense, error) {
	r := &reader{bs: data}
	sense := &core.Sense{
		Term:     core.Term{Lemma: r.string(), POS: core.POS(r.uint())},
		Concepts: r.ids(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("%w: sense: %w", ErrSerializationFailed, r.err)
	}
	return sense, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
// UpdatedAt is stored with microsecond precision.
func MarshalCheckpoint(checkpoint *Checkpoint) []byte {
	micros := uint64(checkpoint.UpdatedAt.UnixMicro())
	size := sizeString(checkpoint.Source) + sizeUint(checkpoint.Concepts) + sizeUint(checkpoint.Senses) + sizeUint(micros)
	w := newWriter(size)
	w.putString(checkpoint.Source)
	w.putUint(checkpoint.Concepts)
	w.putUint(checkpoint.Senses)
	w.putUint(micros)
	return w.bs
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*Checkpoint, error) {
	r := &reader{bs: data}
	checkpoint := &Checkpoint{
		Source:   r.string(),
		Concepts: r.uint(),
		Senses:   r.uint(),
	}
	checkpoint.UpdatedAt = time.UnixMicro(int64(r.uint())).UTC()
	if r.err != nil {
		return nil, fmt.Errorf("%w: checkpoint: %w", ErrSerializationFailed, r.err)
	}
	return checkpoint, nil
}

func presentRelations(concept *core.Concept) []core.RelationKind {
	var kinds []core.RelationKind
	for _, kind := range core.DefaultRelationOrder {
		if len(concept.Relations[kind]) > 0 {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func sizeUint(v uint64) int {
	return varint.Uint64.Size(v)
}

func sizeString(s string) int {
	return ord.String.Size(s)
}

func sizeStrings(ss []string) int {
	size := sizeUint(uint64(len(ss)))
	for _, s := range ss {
		size += sizeString(s)
	}
	return size
}

type writer struct {
	bs  []byte
	off int
}

func newWriter(size int) *writer {
	return &writer{bs: make([]byte, size)}
}

func (w *writer) putUint(v uint64) {
	w.off += varint.Uint64.Marshal(v, w.bs[w.off:])
}

func (w *writer) putString(s string) {
	w.off += ord.String.Marshal(s, w.bs[w.off:])
}

func (w *writer) putStrings(ss []string) {
	w.putUint(uint64(len(ss)))
	for _, s := range ss {
		w.putString(s)
	}
}

func (w *writer) putIDs(ids []core.ID) {
	w.putUint(uint64(len(ids)))
	for _, id := range ids {
		w.putUint(uint64(id))
	}
}

// reader decodes sequentially and keeps the first error.
type reader struct {
	bs  []byte
	off int
	err error
}

func (r *reader) uint() uint64 {
	if r.err != nil {
		return 0
	}
	if r.off >= len(r.bs) {
		r.err = ErrTruncatedData
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(r.bs[r.off:])
	if err != nil {
		r.err = err
		return 0
	}
	r.off += n
	return v
}

func (r *reader) string() string {
	if r.err != nil {
		return ""
	}
	if r.off >= len(r.bs) {
		r.err = ErrTruncatedData
		return ""
	}
	s, n, err := ord.String.Unmarshal(r.bs[r.off:])
	if err != nil {
		r.err = err
		return ""
	}
	r.off += n
	return s
}

// count reads a collection length. Every element occupies at least one byte,
// so a length larger than the remaining input is truncated data.
func (r *reader) count() int {
	n := r.uint()
	if r.err != nil {
		return 0
	}
	if n > uint64(len(r.bs)-r.off) {
		r.err = ErrTruncatedData
		return 0
	}
	return int(n)
}

func (r *reader) strings() []string {
	n := r.count()
	if n == 0 {
		return nil
	}
	ss := make([]string, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		ss = append(ss, r.string())
	}
	return ss
}

func (r *reader) ids() []core.ID {
	n := r.count()
	if n == 0 {
		return nil
	}
	ids := make([]core.ID, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		ids = append(ids, core.ID(r.uint()))
	}
	return ids
}
