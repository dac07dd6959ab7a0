package match

// Levenshtein returns the edit distance between a and b, counted in bytes.
// Identifiers are ASCII after NormalizeIdent, so bytes are characters here.
func Levenshtein(a, b string) int {
	if len(a) < len(b) {
		a, b = b, a
	}

	if b == "" {
		return len(a)
	}

	// row[j] holds the distance between the current prefix of a and b[:j].
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i

		for j := 1; j <= len(b); j++ {
			above := row[j]

			sub := diag
			if a[i-1] != b[j-1] {
				sub++
			}

			row[j] = min(above+1, row[j-1]+1, sub)
			diag = above
		}
	}

	return row[len(b)]
}

// LevenshteinNormalized scales the distance into a similarity in [0, 1],
// where 1 means equal.
func LevenshteinNormalized(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}
