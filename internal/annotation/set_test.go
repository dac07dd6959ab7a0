package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-mapper/internal/graph"
)

func TestParse(t *testing.T) {
	tests := []struct {
		tag  string
		want Set
	}{
		{"", Set{}},
		{"-", Set{Transient: true}},
		{"transient", Set{Transient: true}},
		{"id", Set{Identity: true}},
		{"id,property=uuid", Set{Identity: true, Property: "uuid"}},
		{"property=birth_date,convert=date", Set{Property: "birth_date", Converter: "date"}},
		{"rel=KNOWS", Set{Relationship: "KNOWS"}},
		{"rel=KNOWS, dir=incoming", Set{Relationship: "KNOWS", Direction: graph.Incoming}},
		{"REL=Likes,DIR=Undirected", Set{Relationship: "Likes", Direction: graph.Undirected}},
		{"dir=OUTGOING", Set{Direction: graph.Outgoing}},
		{"rel=HAS,target=Movie", Set{Relationship: "HAS", Target: "Movie"}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := Parse(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		tag     string
		wantErr error
	}{
		{"bogus", ErrSyntax},
		{"color=red", ErrSyntax},
		{"rel=", ErrSyntax},
		{"rel=A,rel=B", ErrSyntax},
		{"dir=sideways", ErrSyntax},
		{"-,id", ErrConflict},
		{"rel=KNOWS,property=knows", ErrConflict},
		{"rel=KNOWS,convert=enum", ErrConflict},
		{"dir=INCOMING,id", ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			_, err := Parse(tt.tag)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSet_IsRelationship(t *testing.T) {
	assert.False(t, Set{}.IsRelationship())
	assert.False(t, Set{Property: "name"}.IsRelationship())
	assert.True(t, Set{Relationship: "KNOWS"}.IsRelationship())
	assert.True(t, Set{Direction: graph.Incoming}.IsRelationship())
	assert.True(t, Set{Target: "Person"}.IsRelationship())
}

func TestSet_String(t *testing.T) {
	for _, tag := range []string{"-", "id,property=uuid", "rel=KNOWS,dir=UNDIRECTED,target=Person", "convert=epoch"} {
		t.Run(tag, func(t *testing.T) {
			s, err := Parse(tag)
			require.NoError(t, err)
			assert.Equal(t, tag, s.String())
		})
	}
}
