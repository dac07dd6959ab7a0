package access_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-mapper/internal/access"
	"graph-mapper/internal/graph"
	"graph-mapper/internal/metadata"
)

type Base struct {
	ID int64
}

type Person struct {
	*Base

	Name     string
	Friends  []*Person
	Best     *Person
	Top      [2]*Person
	Circle   map[*Person]struct{}
	nickname string
}

type Team struct {
	Players []Person
}

type meta struct {
	Author string
}

type Note struct {
	*meta

	Text string
}

type Diary struct {
	pages int
}

func (d *Diary) Pages() (int, error) { return d.pages, nil }

func (d *Diary) SetPages(n int) error {
	if n < 0 {
		return errors.New("negative page count")
	}

	d.pages = n

	return nil
}

func (d *Diary) Explode() int { panic("boom") }

func registry(t *testing.T) *metadata.Registry {
	t.Helper()

	reg, err := metadata.Build(metadata.TypesOf(Person{}, Note{}, Diary{}, Team{}))
	require.NoError(t, err)

	return reg
}

func fieldAccessor(t *testing.T, reg *metadata.Registry, value any, name string) *access.FieldAccessor {
	t.Helper()

	cm, ok := reg.ClassMetadataOf(value)
	require.True(t, ok)

	f, ok := cm.FieldByName(name)
	require.True(t, ok, "field %s", name)

	info := access.Info{Rule: access.ConventionalField, Type: cm.QualifiedName(), Name: name}
	if f.IsRelationship() {
		info.Direction = f.Relationship.Direction
	}

	a, err := access.NewFieldAccessor(cm, f, info)
	require.NoError(t, err)

	return a
}

func TestFieldAccessor_InheritedThroughNilPointer(t *testing.T) {
	t.Parallel()

	reg := registry(t)
	id := fieldAccessor(t, reg, Person{}, "ID")

	got, err := id.Read(&Person{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, got)

	var p Person
	require.NoError(t, id.Write(&p, int64(7)))
	require.NotNil(t, p.Base)
	assert.Equal(t, int64(7), p.ID)

	// driver values are coerced to the declared type
	require.NoError(t, id.Write(&p, 9))
	assert.Equal(t, int64(9), p.ID)

	got, err = id.Read(p)
	require.NoError(t, err)
	assert.EqualValues(t, 9, got)

	assert.Equal(t, access.Field, id.Info().Capability)
	assert.Equal(t, "ID", id.Info().Member)
}

func TestFieldAccessor_Unexported(t *testing.T) {
	t.Parallel()

	reg := registry(t)
	nick := fieldAccessor(t, reg, Person{}, "nickname")

	var p Person
	require.NoError(t, nick.Write(&p, "bo"))
	assert.Equal(t, "bo", p.nickname)

	got, err := nick.Read(&p)
	require.NoError(t, err)
	assert.Equal(t, "bo", got)

	author := fieldAccessor(t, reg, Note{}, "Author")

	var n Note
	require.NoError(t, author.Write(&n, "ann"))
	require.NotNil(t, n.meta)
	assert.Equal(t, "ann", n.Author)
}

func TestFieldAccessor_Collection(t *testing.T) {
	t.Parallel()

	reg := registry(t)
	friends := fieldAccessor(t, reg, Person{}, "Friends")

	bob, carol := &Person{Name: "bob"}, &Person{Name: "carol"}

	var p Person
	require.NoError(t, friends.Write(&p, []any{bob, carol}))
	assert.Equal(t, []*Person{bob, carol}, p.Friends)

	got, err := friends.Read(&p)
	require.NoError(t, err)
	assert.Equal(t, []any{bob, carol}, access.Elements(got))

	require.NoError(t, friends.Write(&p, carol))
	assert.Equal(t, []*Person{carol}, p.Friends)

	require.NoError(t, friends.Write(&p, Person{Name: "dave"}))
	require.Len(t, p.Friends, 1)
	assert.Equal(t, "dave", p.Friends[0].Name)

	require.NoError(t, friends.Write(&p, nil))
	assert.Nil(t, p.Friends)

	err = friends.Write(&p, []any{"not a person"})
	require.ErrorIs(t, err, access.ErrAccessorFailed)
}

func TestFieldAccessor_Array(t *testing.T) {
	t.Parallel()

	reg := registry(t)
	top := fieldAccessor(t, reg, Person{}, "Top")

	bob, carol := &Person{Name: "bob"}, &Person{Name: "carol"}

	var p Person
	require.NoError(t, top.Write(&p, []*Person{bob}))
	assert.Equal(t, [2]*Person{bob, nil}, p.Top)

	err := top.Write(&p, []*Person{bob, carol, bob})
	require.ErrorIs(t, err, access.ErrAccessorFailed)
	assert.Equal(t, [2]*Person{bob, nil}, p.Top, "a failed write leaves the field alone")
}

func TestFieldAccessor_NilElements(t *testing.T) {
	t.Parallel()

	reg := registry(t)
	friends := fieldAccessor(t, reg, Person{}, "Friends")
	top := fieldAccessor(t, reg, Person{}, "Top")
	circle := fieldAccessor(t, reg, Person{}, "Circle")

	bob, carol := &Person{Name: "bob"}, &Person{Name: "carol"}

	var p Person
	require.NoError(t, friends.Write(&p, []any{bob, nil, carol}))
	assert.Equal(t, []*Person{bob, nil, carol}, p.Friends)

	require.NoError(t, top.Write(&p, []any{nil, carol}))
	assert.Equal(t, [2]*Person{nil, carol}, p.Top)

	require.NoError(t, circle.Write(&p, []any{bob, nil}))
	assert.Len(t, p.Circle, 1)

	players := fieldAccessor(t, reg, Team{}, "Players")

	var team Team
	err := players.Write(&team, []any{bob, nil})
	require.ErrorIs(t, err, access.ErrAccessorFailed)
	assert.Nil(t, team.Players)

	require.NoError(t, players.Write(&team, []any{bob}))
	require.Len(t, team.Players, 1)
	assert.Equal(t, "bob", team.Players[0].Name)
}

func TestFieldAccessor_SetAndScalar(t *testing.T) {
	t.Parallel()

	reg := registry(t)
	circle := fieldAccessor(t, reg, Person{}, "Circle")
	best := fieldAccessor(t, reg, Person{}, "Best")

	bob, carol := &Person{Name: "bob"}, &Person{Name: "carol"}

	var p Person
	require.NoError(t, circle.Write(&p, []*Person{bob, bob, carol}))
	assert.Len(t, p.Circle, 2)
	assert.Contains(t, p.Circle, bob)
	assert.Contains(t, p.Circle, carol)
	assert.Len(t, access.Elements(p.Circle), 2)

	require.NoError(t, best.Write(&p, []any{carol}))
	assert.Same(t, carol, p.Best)

	err := best.Write(&p, []any{bob, carol})
	require.ErrorIs(t, err, access.ErrAccessorFailed)

	require.NoError(t, best.Write(&p, []any{}))
	assert.Nil(t, p.Best)
}

func TestFieldAccessor_WrongInstance(t *testing.T) {
	t.Parallel()

	reg := registry(t)
	name := fieldAccessor(t, reg, Person{}, "Name")

	err := name.Write(Person{}, "x")
	require.ErrorIs(t, err, access.ErrAccessorFailed)

	_, err = name.Read(&Note{})
	require.ErrorIs(t, err, access.ErrAccessorFailed)

	_, err = name.Read(nil)
	require.ErrorIs(t, err, access.ErrAccessorFailed)

	var nilPerson *Person
	err = name.Write(nilPerson, "x")
	require.ErrorIs(t, err, access.ErrAccessorFailed)
}

func TestMethodAccessors(t *testing.T) {
	t.Parallel()

	reg := registry(t)

	cm, ok := reg.ClassMetadataOf(Diary{})
	require.True(t, ok)

	setPages, ok := cm.MethodByName("SetPages")
	require.True(t, ok)
	pages, ok := cm.MethodByName("Pages")
	require.True(t, ok)
	explode, ok := cm.MethodByName("Explode")
	require.True(t, ok)

	conv, err := reg.Converters().ConverterFor(setPages)
	require.NoError(t, err)

	info := access.Info{Rule: access.ConventionalMethod, Type: cm.QualifiedName(), Name: "pages"}

	w, err := access.NewMethodWriter(cm, setPages, conv, info)
	require.NoError(t, err)
	r, err := access.NewMethodReader(cm, pages, conv, info)
	require.NoError(t, err)

	var d Diary
	require.NoError(t, w.Write(&d, int64(12)))
	assert.Equal(t, 12, d.pages)

	got, err := r.Read(&d)
	require.NoError(t, err)
	assert.EqualValues(t, 12, got)

	err = w.Write(&d, -1)
	require.ErrorIs(t, err, access.ErrAccessorFailed)

	var resErr *access.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, access.AccessorFailed, resErr.Kind)
	assert.Contains(t, resErr.Accessor, "SetPages")
	assert.Contains(t, err.Error(), "negative page count")

	boom, err := access.NewMethodReader(cm, explode, nil, info)
	require.NoError(t, err)

	_, err = boom.Read(&d)
	require.ErrorIs(t, err, access.ErrAccessorFailed)
	assert.Contains(t, err.Error(), "boom")

	_, err = access.NewMethodWriter(cm, pages, conv, info)
	require.Error(t, err)
}

func TestElements(t *testing.T) {
	t.Parallel()

	bob := &Person{Name: "bob"}

	assert.Nil(t, access.Elements(nil))
	assert.Nil(t, access.Elements((*Person)(nil)))
	assert.Equal(t, []any{bob}, access.Elements(bob))
	assert.Equal(t, []any{bob}, access.Elements([]*Person{nil, bob}))
	assert.Equal(t, []any{bob}, access.Elements([1]*Person{bob}))
	assert.Equal(t, []any{bob}, access.Elements(map[*Person]bool{bob: true, {}: false}))
}

func TestResolutionError(t *testing.T) {
	t.Parallel()

	err := &access.ResolutionError{
		Kind:        access.NoMatch,
		Type:        "social.Person",
		Name:        "LIKES",
		Direction:   graph.Outgoing,
		Suggestions: []string{"Likes"},
	}

	assert.ErrorIs(t, err, access.ErrNoMatch)
	assert.NotErrorIs(t, err, access.ErrAmbiguous)
	assert.Equal(t, "no matching accessor for social.Person.LIKES (OUTGOING) (did you mean Likes?)", err.Error())

	amb := &access.ResolutionError{
		Kind:       access.Ambiguous,
		Type:       "social.Person",
		Name:       "friend",
		Candidates: []string{"Friends", "friend"},
	}

	assert.ErrorIs(t, amb, access.ErrAmbiguous)
	assert.Equal(t, "ambiguous accessor for social.Person.friend (NONE): candidates Friends, friend", amb.Error())
}
