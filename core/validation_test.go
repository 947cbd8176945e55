package core

import (
	"errors"
	"testing"
)

func TestValidateConcept(t *testing.T) {
	tests := []struct {
		name    string
		concept *Concept
		wantErr error
	}{
		{
			name:    "valid concept",
			concept: &Concept{Id: 1, POS: POSNoun, Members: []string{"moon", "satellite"}},
			wantErr: nil,
		},
		{
			name: "valid concept with relations",
			concept: &Concept{
				POS:       POSVerb,
				Members:   []string{"orbit"},
				Relations: map[RelationKind][]ID{RelationHypernym: {2}},
			},
			wantErr: nil,
		},
		{
			name:    "nil concept",
			concept: nil,
			wantErr: ErrInvalidConcept,
		},
		{
			name:    "invalid POS",
			concept: &Concept{POS: 0, Members: []string{"moon"}},
			wantErr: ErrInvalidPOS,
		},
		{
			name:    "no members",
			concept: &Concept{POS: POSNoun},
			wantErr: ErrEmptyMembers,
		},
		{
			name:    "empty member",
			concept: &Concept{POS: POSNoun, Members: []string{"moon", ""}},
			wantErr: ErrEmptyLemma,
		},
		{
			name:    "duplicate member",
			concept: &Concept{POS: POSNoun, Members: []string{"moon", "moon"}},
			wantErr: ErrDuplicateLemma,
		},
		{
			name: "explicit self relation",
			concept: &Concept{
				POS:       POSNoun,
				Members:   []string{"moon"},
				Relations: map[RelationKind][]ID{RelationSelf: {1}},
			},
			wantErr: ErrInvalidConcept,
		},
		{
			name: "unknown relation",
			concept: &Concept{
				POS:       POSNoun,
				Members:   []string{"moon"},
				Relations: map[RelationKind][]ID{RelationKind(42): {1}},
			},
			wantErr: ErrInvalidRelation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConcept(tt.concept)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateConcept() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateConcept() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateConcept() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSense(t *testing.T) {
	tests := []struct {
		name    string
		sense   *Sense
		wantErr error
	}{
		{name: "valid", sense: &Sense{Term: Term{Lemma: "moon", POS: POSNoun}, Concepts: []ID{1, 2}}},
		{name: "nil", sense: nil, wantErr: ErrInvalidSense},
		{name: "empty lemma", sense: &Sense{Term: Term{POS: POSNoun}, Concepts: []ID{1}}, wantErr: ErrEmptyLemma},
		{name: "bad POS", sense: &Sense{Term: Term{Lemma: "moon"}, Concepts: []ID{1}}, wantErr: ErrInvalidPOS},
		{name: "no concepts", sense: &Sense{Term: Term{Lemma: "moon", POS: POSNoun}}, wantErr: ErrInvalidSense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSense(tt.sense)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSense() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSense() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateLemmas(t *testing.T) {
	if err := ValidateLemmas(nil); err != nil {
		t.Errorf("ValidateLemmas(nil) = %v, want nil", err)
	}
	if err := ValidateLemmas([]string{"a", "b"}); err != nil {
		t.Errorf("ValidateLemmas(a,b) = %v, want nil", err)
	}
	if err := ValidateLemmas([]string{"a", "b", "a"}); !errors.Is(err, ErrDuplicateLemma) {
		t.Errorf("ValidateLemmas(a,b,a) = %v, want %v", err, ErrDuplicateLemma)
	}
}
