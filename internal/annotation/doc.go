// Package annotation parses mapping annotations attached to domain types.
//
// Annotations come from three places, in increasing order of precedence:
//   - struct tags (key "ogm" by default): `ogm:"rel=KNOWS,dir=UNDIRECTED"`
//   - a MethodTags() map[string]string hook for annotating getters and setters
//   - a YAML overlay file keyed by type name, for types whose source cannot
//     be edited
//
// All three use the same grammar and parse into a Set.
package annotation
