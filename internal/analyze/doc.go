// Package analyze loads Go packages without running them and checks their
// ogm annotations.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to build an
// in-memory model of the structs and their fields, then applies the checks
// the metadata builder applies at run time that need no reflection: tag
// syntax, conflicting items, duplicate identities, duplicate relationship
// and property mappings, opaque elements and unknown targets.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/alias/pointer/slice/map/...)
//   - FieldInfo: describes field name, type, tags, and embedding
//   - Linter: checks the annotations of a TypeGraph
package analyze
