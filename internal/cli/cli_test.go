package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--no-color", "--log-level", "error"}, args...))

	err := root.Execute()

	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "graph-mapper version: dev")
}

func TestConverters(t *testing.T) {
	out, err := run(t, "converters")
	require.NoError(t, err)

	for _, name := range []string{"base64", "date", "datetime", "enum", "epoch", "identity", "uuid"} {
		assert.Contains(t, out, name+"\n")
	}
}

func TestLint(t *testing.T) {
	out, err := run(t, "lint", "graph-mapper/examples/social")
	require.NoError(t, err)
	assert.Contains(t, out, "ok (0 warning(s))")

	out, err = run(t, "lint", "../analyze/testdata/broken")
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "[unknown_target]")
	assert.Contains(t, out, "(did you mean Movie?)")
	assert.Contains(t, out, "8 error(s)")
}

func TestLint_Dump(t *testing.T) {
	out, err := run(t, "lint", "--dump", "graph-mapper/examples/social")
	require.NoError(t, err)
	assert.Contains(t, out, "graph-mapper/examples/social.Person")
	assert.Contains(t, out, `"mail"`)
}

func TestLint_LoadError(t *testing.T) {
	_, err := run(t, "lint", "graph-mapper/no/such/package")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errFindings)
}

func TestOverlay(t *testing.T) {
	out, err := run(t, "overlay", "../../examples/social/overlay.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	bad := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`
types:
  social.Person:
    fields:
      Friends: rel=KNOWS,dir=sideways
  social.Movie: {}
`), 0o600))

	out, err = run(t, "overlay", bad)
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "[social.Person] fields.Friends: [tag_syntax]")
	assert.Contains(t, out, "warning [social.Movie]")
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", "social.Person")
	require.NoError(t, err)

	assert.Contains(t, out, "graph-mapper/examples/social.Person (embeds Entity)")
	assert.Contains(t, out, "KNOWS OUTGOING")
	assert.Contains(t, out, "FOLLOWS INCOMING")
	assert.Contains(t, out, "mail")
	assert.NotContains(t, out, "Password")

	out, err = run(t, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "graph-mapper/examples/social.Entity [implicit]")
	assert.Contains(t, out, "graph-mapper/examples/social.Review")

	_, err = run(t, "inspect", "social.Actor")
	require.ErrorContains(t, err, `type "social.Actor" is not part of the model`)
}

func TestInspect_Overlay(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "graph-mapper.yaml")
	overlay, err := filepath.Abs("../../examples/social/overlay.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg, []byte("overlay: "+overlay+"\n"), 0o600))

	out, err := run(t, "--config", cfg, "inspect", "social.Movie")
	require.NoError(t, err)
	assert.Contains(t, out, "genre_names")
}

func TestResolve(t *testing.T) {
	out, err := run(t, "resolve", "social.Person", "KNOWS", "--dir", "outgoing", "--write")
	require.NoError(t, err)
	assert.Contains(t, out, "social.Person.Friends[FIELD KNOWS OUTGOING via annotated field]")

	out, err = run(t, "resolve", "social.Person", "FOLLOWS", "--dir", "incoming", "--write")
	require.NoError(t, err)
	assert.Contains(t, out, "social.Person.SetFollowers[METHOD FOLLOWS INCOMING via annotated method]")

	out, err = run(t, "resolve", "social.Person", "mail")
	require.NoError(t, err)
	assert.Contains(t, out, "social.Person.Email[FIELD mail via annotated field]")
}

func TestResolve_Failures(t *testing.T) {
	out, err := run(t, "resolve", "social.Person", "nme")
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "no matching accessor")

	_, err = run(t, "resolve", "social.Person", "KNOWS", "--dir", "sideways")
	require.ErrorContains(t, err, "unknown relationship direction")
}

func TestResolve_Metrics(t *testing.T) {
	out, err := run(t, "resolve", "social.Movie", "Title", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, `graph_mapper_resolutions_total{outcome="resolved",operation="read"`)
}

func TestBadLogLevel(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"--log-level", "loud", "version"})
	root.SetOut(&bytes.Buffer{})

	require.Error(t, root.Execute())
}
