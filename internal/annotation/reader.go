package annotation

import (
	"errors"
	"fmt"
	"reflect"
)

// MethodTagger is implemented by domain types that annotate their methods.
// MethodTags is called on a zero value and must not depend on its state.
//
//	func (*Person) MethodTags() map[string]string {
//		return map[string]string{"SetFollowers": "rel=FOLLOWS,dir=INCOMING"}
//	}
type MethodTagger interface {
	MethodTags() map[string]string
}

var methodTaggerType = reflect.TypeFor[MethodTagger]()

// ErrHook marks a MethodTags hook that panicked.
var ErrHook = errors.New("MethodTags hook failed")

// Reader collects raw annotation strings for the members of a struct type.
// The zero value reads the default tag key and no overlay.
type Reader struct {
	TagKey  string
	Overlay *Overlay
}

func (r Reader) tagKey() string {
	if r.TagKey == "" {
		return DefaultTagKey
	}

	return r.TagKey
}

// FieldTag returns the annotation of field f declared by owner.
// An overlay entry replaces the struct tag.
func (r Reader) FieldTag(owner reflect.Type, f reflect.StructField) (string, bool) {
	if to, ok := r.Overlay.For(owner); ok {
		if tag, ok := to.Fields[f.Name]; ok {
			return tag, true
		}
	}

	return f.Tag.Lookup(r.tagKey())
}

// MethodTags returns the annotations of owner's methods, merging the
// MethodTagger hook with the overlay. Overlay entries win. A panicking hook
// is reported as ErrHook; the overlay entries are still returned.
func (r Reader) MethodTags(owner reflect.Type) (map[string]string, error) {
	tags := make(map[string]string)

	var err error

	ptr := reflect.PointerTo(owner)
	if ptr.Implements(methodTaggerType) {
		tagger, _ := reflect.New(owner).Interface().(MethodTagger)

		var hooked map[string]string
		if hooked, err = safeMethodTags(tagger); err == nil {
			for name, tag := range hooked {
				tags[name] = tag
			}
		}
	}

	if to, ok := r.Overlay.For(owner); ok {
		for name, tag := range to.Methods {
			tags[name] = tag
		}
	}

	return tags, err
}

// IsHookMethod reports whether name is a method of the annotation machinery
// itself and so never a getter or setter.
func IsHookMethod(name string) bool {
	return name == "MethodTags"
}

func safeMethodTags(tagger MethodTagger) (tags map[string]string, err error) {
	defer func() {
		if p := recover(); p != nil {
			tags, err = nil, fmt.Errorf("%w: %v", ErrHook, p)
		}
	}()

	return tagger.MethodTags(), nil
}
