// Package metadata derives a structural description of domain types.
//
// Build walks a set of Go struct types once and produces an immutable
// Registry of ClassMetadata: fields (own and inherited through the single
// embedded parent struct), getters and setters, relationships, property
// converters and the identity field. Every configuration problem found on
// the way is reported together in one *diagnostic.ConfigError and no
// partially built registry is ever returned.
//
// After Build returns, the registry and everything reachable from it are
// read-only and safe for concurrent use.
package metadata
