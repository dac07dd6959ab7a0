// Package broken holds structs whose annotations the linter rejects.
package broken

// Node is implemented by every labelled struct.
type Node interface {
	Label() string
}

type Movie struct {
	Title string `ogm:"id"`
	Tags  map[string]bool
}

func (Movie) Label() string { return "Movie" }

type Person struct {
	ID      int64    `ogm:"id"`
	Code    string   `ogm:"id"`
	Nick    string   `ogm:"nick"`
	Secret  string   `ogm:"-,property=secret"`
	Likes   []Movie  `ogm:"rel=LIKES"`
	Loves   []*Movie `ogm:"rel=LIKES"`
	Watched []Node   `ogm:"rel=WATCHED"`
	Rated   []Node   `ogm:"rel=RATED,target=Movy"`
	Email   string   `ogm:"property=email"`
	Mail    string   `ogm:"property=email"`
}

type Holder struct {
	Movie `ogm:"rel=HOLDS"`
}
