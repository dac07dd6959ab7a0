// Package match provides name normalization, Levenshtein distance calculation,
// type compatibility scoring, and candidate ranking for member lookup.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - RelationshipType: infers a relationship type from a member name
//   - Inflections: singular/plural variants of a member name
//   - Levenshtein: computes edit distance between strings
//   - ScoreTypeCompatibility: scores type compatibility using reflect
//   - RankCandidates, Suggestions: rank members for a requested name
package match
