package match

import "strings"

// Inflections returns the normalized singular and plural forms of an
// identifier, excluding the normalized identifier itself. It covers regular
// English plurals only, which is what member names such as "friend" and
// "friends" or "category" and "categories" need.
func Inflections(s string) []string {
	norm := NormalizeIdent(s)
	if norm == "" {
		return nil
	}

	var out []string

	add := func(v string) {
		if v == "" || v == norm {
			return
		}

		for _, existing := range out {
			if existing == v {
				return
			}
		}

		out = append(out, v)
	}

	for _, v := range singulars(norm) {
		add(v)
	}

	add(plural(norm))

	return out
}

// InflectedMatch reports whether a and b name the same thing once plurals
// are taken into account ("friend" vs "friends").
func InflectedMatch(a, b string) bool {
	nb := NormalizeIdent(b)
	for _, v := range Inflections(a) {
		if v == nb {
			return true
		}
	}

	return false
}

// singulars returns candidate singular forms; "-ies" and "-es" words are
// ambiguous ("categories", "movies") so both readings are returned.
func singulars(s string) []string {
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 3:
		return []string{s[:len(s)-3] + "y", s[:len(s)-1]}
	case hasAnySuffix(s, "sses", "xes", "ches", "shes", "zes"):
		return []string{s[:len(s)-2], s[:len(s)-1]}
	case strings.HasSuffix(s, "ss"):
		return nil
	case strings.HasSuffix(s, "s") && len(s) > 1:
		return []string{s[:len(s)-1]}
	default:
		return nil
	}
}

func plural(s string) string {
	switch {
	case strings.HasSuffix(s, "y") && len(s) > 1 && !isVowel(s[len(s)-2]):
		return s[:len(s)-1] + "ies"
	case hasAnySuffix(s, "ss", "x", "ch", "sh", "z"):
		return s + "es"
	case strings.HasSuffix(s, "s"):
		return s
	default:
		return s + "s"
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}

	return false
}

func isVowel(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}
