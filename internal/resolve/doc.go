// Package resolve picks, for a type, a relationship type or property name
// and a direction, the accessor that reads or writes it.
//
// For every direction of the fallback chain (see graph.Direction.Fallbacks)
// the rules below are tried in order and the first one that matches wins:
//
//  1. a getter or setter annotated with the name;
//  2. a field annotated with the name;
//  3. a getter or setter whose member name normalizes to the name;
//  4. a field whose name normalizes to the name, or is its singular or
//     plural form.
//
// Un-annotated members serve OUTGOING relationships only. When every
// direction fails, a relationship writer given a value type falls back to
// the only relationship field whose element type matches it.
//
// Two members matching at the same step is an error, never a silent pick.
// Resolved accessors are cached for the lifetime of the Resolver.
package resolve
