package metadata

import "reflect"

// dealer is a worklist of types still to inspect. A type handed out once is
// never handed out again.
type dealer struct {
	needs map[reflect.Type]struct{}
	done  map[reflect.Type]struct{}
}

func (d *dealer) NextNeeds() (reflect.Type, bool) {
	for t := range d.needs {
		delete(d.needs, t)

		if _, exists := d.done[t]; !exists {
			d.Done(t)

			return t, true
		}
	}

	return nil, false
}

func (d *dealer) Needs(t reflect.Type) {
	if d.needs == nil {
		d.needs = make(map[reflect.Type]struct{})
	}

	if _, exists := d.done[t]; !exists {
		d.needs[t] = struct{}{}
	}
}

func (d *dealer) Done(t reflect.Type) {
	if d.done == nil {
		d.done = make(map[reflect.Type]struct{})
	}

	delete(d.needs, t)
	d.done[t] = struct{}{}
}

// Seen returns every type handed out or marked done.
func (d *dealer) Seen() []reflect.Type {
	out := make([]reflect.Type, 0, len(d.done))
	for t := range d.done {
		out = append(out, t)
	}

	return out
}
