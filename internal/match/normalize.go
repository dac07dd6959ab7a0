package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes an identifier for fuzzy matching.
// The normalization pipeline:
// 1. Case-fold to lower.
// 2. Strip separators (_, -, spaces).
// 3. Tokenize CamelCase.
func NormalizeIdent(s string) string {
	// First expand CamelCase before lowercasing
	tokens := tokenizeCamelCase(s)

	// Join, lowercase, and strip separators
	joined := strings.Join(tokens, "")
	joined = strings.ToLower(joined)
	joined = stripSeparators(joined)

	return joined
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "customerName" -> ["customer", "Name"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "getHTTPResponse" -> ["get", "HTTP", "Response"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i := range runes {
		r := runes[i]

		// Handle separators - start a new token
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i == 0 {
			current.WriteRune(r)

			continue
		}

		if shouldStartNewToken(runes, i) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isSeparator returns true if the rune is a common separator.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prevRune := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prevRune)
	isPrevSep := isSeparator(prevRune)

	// Transition from lowercase to uppercase: start new token
	// e.g., "orderID" -> split before 'I'
	if isUpper && !isPrevUpper && !isPrevSep {
		return true
	}

	// End of acronym: check if next character is lowercase
	// e.g., "XMLParser" -> "XML" + "Parser", split before 'P'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
	if isUpper && isPrevUpper && hasNextLower {
		return true
	}

	return false
}

// stripSeparators removes common separators from a string.
func stripSeparators(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	for _, r := range s {
		if !isSeparator(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// TokenizeIdent splits an identifier into normalized lowercase tokens.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// RelationshipType derives the relationship type inferred for an
// un-annotated member: the name in UPPER_SNAKE_CASE.
//   - "friends" -> "FRIENDS"
//   - "knowsAbout" -> "KNOWS_ABOUT"
//   - "HTTPLinks" -> "HTTP_LINKS"
func RelationshipType(name string) string {
	return strings.ToUpper(strings.Join(TokenizeIdent(name), "_"))
}

// SameIdent reports whether two identifiers are equal after normalization,
// so "knows_about", "KNOWS_ABOUT" and "KnowsAbout" all match.
func SameIdent(a, b string) bool {
	return NormalizeIdent(a) == NormalizeIdent(b)
}

// LowerCamel converts an identifier to lowerCamelCase, the default graph
// property name of a Go field:
//   - "Name" -> "name"
//   - "BirthDate" -> "birthDate"
//   - "ID" -> "id"
//   - "URLPath" -> "urlPath"
func LowerCamel(s string) string {
	tokens := TokenizeIdent(s)
	if len(tokens) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(tokens[0])

	for _, t := range tokens[1:] {
		runes := []rune(t)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}

	return b.String()
}
