package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInflections(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"friend", []string{"friends"}},
		{"friends", []string{"friend"}},
		{"Category", []string{"categories"}},
		{"categories", []string{"category", "categorie"}},
		{"boxes", []string{"box", "boxe"}},
		{"box", []string{"boxes"}},
		{"address", []string{"addresses"}},
		{"movies", []string{"movy", "movie"}},
		{"day", []string{"days"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Inflections(tt.input))
		})
	}
}

func TestInflectedMatch(t *testing.T) {
	assert.True(t, InflectedMatch("friend", "Friends"))
	assert.True(t, InflectedMatch("KNOWS_FRIENDS", "knowsFriend"))
	assert.True(t, InflectedMatch("movies", "movie"))
	assert.False(t, InflectedMatch("friend", "friend"))
	assert.False(t, InflectedMatch("friend", "enemies"))
}
