package annotation

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-mapper/internal/diagnostic"
)

type actor struct {
	Name   string `ogm:"property=full_name"`
	Movies []string
	secret int `graph:"-"`
}

func (*actor) MethodTags() map[string]string {
	return map[string]string{
		"SetMovies": "rel=ACTED_IN",
		"Movies":    "rel=ACTED_IN",
	}
}

type plain struct {
	Name string
}

const overlayYAML = `
types:
  annotation.actor:
    fields:
      Movies: rel=ACTED_IN,dir=OUTGOING
    methods:
      SetMovies: rel=ACTED_IN,dir=OUTGOING
  plain:
    fields:
      Name: property=title
  broken.Type:
    fields:
      X: rel=A,property=b
`

func TestParseOverlay(t *testing.T) {
	o, err := ParseOverlay([]byte(overlayYAML))
	require.NoError(t, err)
	require.Len(t, o.Types, 3)

	to, ok := o.For(reflect.TypeFor[actor]())
	require.True(t, ok)
	assert.Equal(t, "rel=ACTED_IN,dir=OUTGOING", to.Fields["Movies"])

	to, ok = o.For(reflect.TypeFor[plain]())
	require.True(t, ok)
	assert.Equal(t, "property=title", to.Fields["Name"])

	_, ok = o.For(reflect.TypeFor[Set]())
	assert.False(t, ok)
}

func TestParseOverlay_Invalid(t *testing.T) {
	_, err := ParseOverlay([]byte("types: [1, 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse overlay YAML")
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overlayYAML), 0o600))

	o, err := LoadOverlay(path)
	require.NoError(t, err)
	assert.Len(t, o.Types, 3)

	_, err = LoadOverlay(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestOverlay_Validate(t *testing.T) {
	o, err := ParseOverlay([]byte(overlayYAML + "  empty.Type: {}\n"))
	require.NoError(t, err)

	diags := o.Validate()
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, diagnostic.CodeTagSyntax, diags.Errors[0].Code)
	assert.Equal(t, "broken.Type", diags.Errors[0].Type)
	assert.Equal(t, "fields.X", diags.Errors[0].FieldPath)
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "empty.Type", diags.Warnings[0].Type)
}

func TestReader_FieldTag(t *testing.T) {
	typ := reflect.TypeFor[actor]()
	name, _ := typ.FieldByName("Name")
	movies, _ := typ.FieldByName("Movies")
	secret, _ := typ.FieldByName("secret")

	var r Reader

	tag, ok := r.FieldTag(typ, name)
	assert.True(t, ok)
	assert.Equal(t, "property=full_name", tag)

	_, ok = r.FieldTag(typ, movies)
	assert.False(t, ok)

	_, ok = r.FieldTag(typ, secret)
	assert.False(t, ok)

	r.TagKey = "graph"
	tag, ok = r.FieldTag(typ, secret)
	assert.True(t, ok)
	assert.Equal(t, "-", tag)

	o, err := ParseOverlay([]byte(overlayYAML))
	require.NoError(t, err)

	r = Reader{Overlay: o}
	tag, ok = r.FieldTag(typ, movies)
	assert.True(t, ok)
	assert.Equal(t, "rel=ACTED_IN,dir=OUTGOING", tag)
}

func TestReader_MethodTags(t *testing.T) {
	typ := reflect.TypeFor[actor]()

	tags, err := Reader{}.MethodTags(typ)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"SetMovies": "rel=ACTED_IN",
		"Movies":    "rel=ACTED_IN",
	}, tags)

	o, err := ParseOverlay([]byte(overlayYAML))
	require.NoError(t, err)

	tags, err = Reader{Overlay: o}.MethodTags(typ)
	require.NoError(t, err)
	assert.Equal(t, "rel=ACTED_IN,dir=OUTGOING", tags["SetMovies"])
	assert.Equal(t, "rel=ACTED_IN", tags["Movies"])

	tags, err = Reader{}.MethodTags(reflect.TypeFor[plain]())
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.True(t, IsHookMethod("MethodTags"))
}

type jumpy struct{}

func (*jumpy) MethodTags() map[string]string { panic("not ready") }

func TestReader_MethodTagsPanic(t *testing.T) {
	tags, err := Reader{}.MethodTags(reflect.TypeFor[jumpy]())
	require.ErrorIs(t, err, ErrHook)
	assert.ErrorContains(t, err, "not ready")
	assert.Empty(t, tags)
}
