package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLemma(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"moon", "moon"},
		{"  Space Station ", "space_station"},
		{"Moon", "moon"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLemma(tt.in), "input %q", tt.in)
	}
}
