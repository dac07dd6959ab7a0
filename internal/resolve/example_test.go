package resolve_test

import (
	"fmt"
	"reflect"

	"graph-mapper/internal/graph"
	"graph-mapper/internal/metadata"
	"graph-mapper/internal/resolve"
)

type Friend struct {
	Name    string
	Friends []*Friend `ogm:"rel=KNOWS"`
}

func Example() {
	reg, err := metadata.Build(metadata.TypesOf(Friend{}))
	if err != nil {
		panic(err)
	}

	r := resolve.New(reg)
	cm, _ := reg.ClassMetadataOf(Friend{})

	w, err := r.ResolveWriter(cm, "KNOWS", graph.Outgoing, reflect.TypeFor[[]*Friend]())
	if err != nil {
		panic(err)
	}

	alice := &Friend{Name: "alice"}
	_ = w.Write(alice, []*Friend{{Name: "bob"}, {Name: "carol"}})

	fmt.Println(w.Info())

	for _, f := range alice.Friends {
		fmt.Println(f.Name)
	}

	// Output:
	// graph-mapper/internal/resolve_test.Friend.Friends[FIELD KNOWS OUTGOING via annotated field]
	// bob
	// carol
}
