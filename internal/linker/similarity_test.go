package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "dengue fever", "dengue fever", 1.0},
		{"case insensitive", "Dengue Fever", "dengue fever", 1.0},
		{"partial overlap", "abcd", "bcde", 0.75},
		{"no overlap", "abc", "xyz", 0.0},
		{"one empty", "fever", "", 0.0},
		{"both empty", "", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SimilarityRatio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarityRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"persistent vomiting", "vomiting"},
		{"aedes aegypti", "aedes albopictus"},
		{"dengue hemorrhagic fever", "dengue fever"},
	}

	for _, p := range pairs {
		assert.InDelta(t, SimilarityRatio(p[0], p[1]), SimilarityRatio(p[1], p[0]), 1e-9)
	}
}

func TestSimilarityRatio_Bounds(t *testing.T) {
	r := SimilarityRatio("severe abdominal pain", "abdominal tenderness on palpation")
	assert.GreaterOrEqual(t, r, 0.0)
	assert.LessOrEqual(t, r, 1.0)
}

func TestSimilarityRatio_RelatedNamesCrossThreshold(t *testing.T) {
	// Names sharing most of their text should clear the default threshold,
	// unrelated ones should not.
	assert.GreaterOrEqual(t, SimilarityRatio("dengue fever", "dengue fever symptoms"), 0.5)
	assert.Less(t, SimilarityRatio("shock", "climate and temperature"), 0.5)
}
