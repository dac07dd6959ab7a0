package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "knows", 5},
		{"friends", "friends", 0},
		{"friend", "friends", 1},
		{"category", "categories", 3},
		{"actedin", "directed", 6},
		{"follows", "followers", 2},
		{"KNOWS", "knows", 5},
	}

	for _, tc := range cases {
		t.Run(tc.a+"/"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.want, Levenshtein(tc.a, tc.b))
			assert.Equal(t, tc.want, Levenshtein(tc.b, tc.a), "distance is symmetric")
		})
	}
}

func TestLevenshteinNormalized(t *testing.T) {
	assert.InDelta(t, 1.0, LevenshteinNormalized("", ""), 1e-9)
	assert.InDelta(t, 1.0, LevenshteinNormalized("members", "members"), 1e-9)
	assert.InDelta(t, 0.0, LevenshteinNormalized("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.7, LevenshteinNormalized("category", "categories"), 1e-9)
	assert.InDelta(t, 6.0/7.0, LevenshteinNormalized("friend", "friends"), 1e-9)
}

func BenchmarkLevenshtein(b *testing.B) {
	for b.Loop() {
		Levenshtein("relationshiptype", "relationshiptypes")
	}
}
