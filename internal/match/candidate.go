package match

import (
	"reflect"
	"sort"
)

// Member is a named, typed member of a domain type: a field, or the value
// type of a getter or setter.
type Member struct {
	Name string
	Type reflect.Type
}

// Candidate represents a member that might serve a requested name.
type Candidate struct {
	Member Member

	// Scoring components
	NameScore  float64                 // Normalized Levenshtein similarity (0-1)
	TypeCompat TypeCompatibilityResult // Type compatibility result

	// Combined score for ranking (higher is better)
	CombinedScore float64

	// Metadata for debugging/explanation
	NormalizedName string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores members against a requested name and, when
// valueType is not nil, against the type of the value to be written.
// Returns candidates sorted by combined score (descending).
func RankCandidates(target string, valueType reflect.Type, members []Member) CandidateList {
	candidates := make(CandidateList, 0, len(members))

	targetNorm := NormalizeIdent(target)

	for _, m := range members {
		norm := NormalizeIdent(m.Name)

		nameScore := LevenshteinNormalized(norm, targetNorm)
		if InflectedMatch(m.Name, target) {
			nameScore = max(nameScore, inflectedScore)
		}

		var typeCompat TypeCompatibilityResult
		if valueType != nil && m.Type != nil {
			typeCompat = ElementCompatibility(valueType, m.Type)
		}

		candidates = append(candidates, Candidate{
			Member:         m,
			NameScore:      nameScore,
			TypeCompat:     typeCompat,
			CombinedScore:  calculateCombinedScore(nameScore, typeCompat.Compatibility, valueType != nil),
			NormalizedName: norm,
		})
	}

	// Sort by combined score (descending), then by name for determinism
	sort.Sort(candidates)

	return candidates
}

// Suggestions returns up to n of names that look like target, best first.
// It backs "did you mean" hints on failed lookups.
func Suggestions(target string, names []string, n int) []string {
	members := make([]Member, len(names))
	for i, name := range names {
		members[i] = Member{Name: name}
	}

	var out []string

	seen := make(map[string]bool)

	for _, c := range RankCandidates(target, nil, members).AboveThreshold(DefaultSuggestionScore) {
		if seen[c.Member.Name] {
			continue
		}

		seen[c.Member.Name] = true

		out = append(out, c.Member.Name)
		if len(out) == n {
			break
		}
	}

	return out
}

// inflectedScore is the name score of a singular/plural match: below an
// exact match, above any near miss.
const inflectedScore = 0.95

// calculateCombinedScore computes a combined score from name similarity and type compatibility.
// Weights when a value type is known:
//   - Name similarity: 60% (0.0-0.6)
//   - Type compatibility: 40% (0.0-0.4)
//
// Without a value type the name score is used alone.
func calculateCombinedScore(nameScore float64, typeCompat TypeCompatibility, typed bool) float64 {
	const (
		nameWeight = 0.6
		typeWeight = 0.4
	)

	if !typed {
		return nameScore
	}

	// Normalize type compatibility to 0-1 range
	var typeScore float64
	switch typeCompat {
	case TypeIdentical:
		typeScore = 1.0
	case TypeAssignable:
		typeScore = 0.9
	case TypeConvertible:
		typeScore = 0.7
	case TypeNeedsTransform:
		typeScore = 0.4
	case TypeIncompatible:
		typeScore = 0.0
	}

	return nameScore*nameWeight + typeScore*typeWeight
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by combined score descending, then by member name for determinism.
func (c CandidateList) Less(i, j int) bool {
	// Higher score comes first
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}
	// Tie-breaker: alphabetical by member name
	return c[i].Member.Name < c[j].Member.Name
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}
	return &c[0]
}

// IsAmbiguous returns true if the top two candidates are within the threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}
	diff := c[0].CombinedScore - c[1].CombinedScore
	return diff < threshold
}

// AboveThreshold returns candidates with combined score above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.CombinedScore >= threshold {
			result = append(result, cand)
		}
	}
	return result
}

// HighConfidence returns the best candidate if it's significantly better than alternatives.
// Returns nil if no clear winner exists.
func (c CandidateList) HighConfidence(minScore, minGap float64) *Candidate {
	if len(c) == 0 {
		return nil
	}
	best := &c[0]

	// Must meet minimum score threshold
	if best.CombinedScore < minScore {
		return nil
	}

	// Must be compatible (at least needs transform)
	if best.TypeCompat.Compatibility < TypeNeedsTransform {
		return nil
	}

	// If there's a second candidate, must have sufficient gap
	if len(c) > 1 {
		gap := c[0].CombinedScore - c[1].CombinedScore
		if gap < minGap {
			return nil
		}
	}

	return best
}

// Confidence thresholds.
const (
	// DefaultMinScore is the minimum combined score for auto-acceptance.
	DefaultMinScore = 0.7
	// DefaultMinGap is the minimum score gap between top candidates.
	DefaultMinGap = 0.15
	// DefaultAmbiguityThreshold is the score difference that marks ambiguity.
	DefaultAmbiguityThreshold = 0.1
	// DefaultSuggestionScore is the minimum name score for a suggestion.
	DefaultSuggestionScore = 0.5
	// DefaultSuggestionCount is how many suggestions a failed lookup carries.
	DefaultSuggestionCount = 3
)
