package match

import (
	"reflect"
	"testing"
)

func TestRankCandidates(t *testing.T) {
	type person struct{ Name string }

	friends := reflect.TypeFor[[]*person]()
	members := []Member{
		{Name: "Friends", Type: friends},
		{Name: "friend", Type: reflect.TypeFor[*person]()},
		{Name: "Fiends", Type: reflect.TypeFor[[]string]()},
		{Name: "Age", Type: reflect.TypeFor[int]()},
	}

	candidates := RankCandidates("friends", reflect.TypeFor[[]*person](), members)

	if len(candidates) != 4 {
		t.Fatalf("Expected 4 candidates, got %d", len(candidates))
	}

	// Best match should be "Friends" (exact name, identical type)
	if candidates[0].Member.Name != "Friends" {
		t.Errorf("Expected best match to be 'Friends', got '%s'", candidates[0].Member.Name)
	}

	if candidates[0].CombinedScore < 0.99 {
		t.Errorf("Expected top score for exact match, got %f", candidates[0].CombinedScore)
	}

	// Second best should be "friend" (singular, element compatible)
	if candidates[1].Member.Name != "friend" {
		t.Errorf("Expected second match to be 'friend', got '%s'", candidates[1].Member.Name)
	}

	if candidates[3].Member.Name != "Age" {
		t.Errorf("Expected worst match to be 'Age', got '%s'", candidates[3].Member.Name)
	}
}

func TestRankCandidates_Untyped(t *testing.T) {
	members := []Member{{Name: "Likes"}, {Name: "Knows"}}

	candidates := RankCandidates("KNOWS", nil, members)
	if candidates[0].Member.Name != "Knows" || candidates[0].CombinedScore != 1.0 {
		t.Errorf("Expected 'Knows' with score 1.0, got '%s' with %f",
			candidates[0].Member.Name, candidates[0].CombinedScore)
	}
}

func TestSuggestions(t *testing.T) {
	names := []string{"Friends", "Enemies", "Name", "Friends", "FriendOf"}

	got := Suggestions("freinds", names, 3)
	if len(got) == 0 || got[0] != "Friends" {
		t.Fatalf("Suggestions() = %v, want Friends first", got)
	}

	for i, name := range got {
		for _, other := range got[i+1:] {
			if name == other {
				t.Errorf("Suggestions() returned duplicate %q", name)
			}
		}
	}

	if got := Suggestions("zzzzzz", names, 3); len(got) != 0 {
		t.Errorf("Suggestions() = %v, want none", got)
	}
}

func TestCandidateList_Sorting(t *testing.T) {
	candidates := CandidateList{
		{Member: Member{Name: "FieldA"}, CombinedScore: 0.5},
		{Member: Member{Name: "FieldC"}, CombinedScore: 0.9},
		{Member: Member{Name: "FieldB"}, CombinedScore: 0.7},
		{Member: Member{Name: "FieldD"}, CombinedScore: 0.7}, // Same score as FieldB
	}

	// This should be done by RankCandidates, but test manual sorting
	// (candidates are already sorted when returned from RankCandidates)

	// Verify ordering after explicit sort
	if candidates[0].CombinedScore > candidates[1].CombinedScore {
		// Pre-sorted highest first
	}

	// Test that Best() returns highest
	best := candidates.Best()
	if best == nil {
		t.Error("Expected best candidate, got nil")
	}
}

func TestCandidateList_IsAmbiguous(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		threshold float64
		expected  bool
	}{
		{
			name:      "clear winner",
			scores:    []float64{0.9, 0.5},
			threshold: 0.1,
			expected:  false,
		},
		{
			name:      "ambiguous",
			scores:    []float64{0.9, 0.85},
			threshold: 0.1,
			expected:  true,
		},
		{
			name:      "single candidate",
			scores:    []float64{0.9},
			threshold: 0.1,
			expected:  false,
		},
		{
			name:      "no candidates",
			scores:    []float64{},
			threshold: 0.1,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var candidates CandidateList
			for i, score := range tt.scores {
				candidates = append(candidates, Candidate{
					Member:        Member{Name: string(rune('A' + i))},
					CombinedScore: score,
				})
			}

			if got := candidates.IsAmbiguous(tt.threshold); got != tt.expected {
				t.Errorf("IsAmbiguous() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCandidateList_AboveThreshold(t *testing.T) {
	candidates := CandidateList{
		{Member: Member{Name: "A"}, CombinedScore: 0.9},
		{Member: Member{Name: "B"}, CombinedScore: 0.7},
		{Member: Member{Name: "C"}, CombinedScore: 0.5},
		{Member: Member{Name: "D"}, CombinedScore: 0.3},
	}

	above := candidates.AboveThreshold(0.6)
	if len(above) != 2 {
		t.Errorf("Expected 2 candidates above 0.6, got %d", len(above))
	}
}

func TestCandidateList_HighConfidence(t *testing.T) {
	tests := []struct {
		name     string
		cands    CandidateList
		minScore float64
		minGap   float64
		wantNil  bool
	}{
		{
			name: "high confidence",
			cands: CandidateList{
				{
					Member:        Member{Name: "A"},
					CombinedScore: 0.95,
					TypeCompat:    TypeCompatibilityResult{Compatibility: TypeIdentical},
				},
				{
					Member:        Member{Name: "B"},
					CombinedScore: 0.5,
					TypeCompat:    TypeCompatibilityResult{Compatibility: TypeConvertible},
				},
			},
			minScore: 0.7,
			minGap:   0.15,
			wantNil:  false,
		},
		{
			name: "too close",
			cands: CandidateList{
				{
					Member:        Member{Name: "A"},
					CombinedScore: 0.9,
					TypeCompat:    TypeCompatibilityResult{Compatibility: TypeIdentical},
				},
				{
					Member:        Member{Name: "B"},
					CombinedScore: 0.85,
					TypeCompat:    TypeCompatibilityResult{Compatibility: TypeIdentical},
				},
			},
			minScore: 0.7,
			minGap:   0.15,
			wantNil:  true,
		},
		{
			name: "below min score",
			cands: CandidateList{
				{
					Member:        Member{Name: "A"},
					CombinedScore: 0.5,
					TypeCompat:    TypeCompatibilityResult{Compatibility: TypeIdentical},
				},
			},
			minScore: 0.7,
			minGap:   0.15,
			wantNil:  true,
		},
		{
			name: "incompatible type",
			cands: CandidateList{
				{
					Member:        Member{Name: "A"},
					CombinedScore: 0.95,
					TypeCompat:    TypeCompatibilityResult{Compatibility: TypeIncompatible},
				},
			},
			minScore: 0.7,
			minGap:   0.15,
			wantNil:  true,
		},
		{
			name:     "empty list",
			cands:    CandidateList{},
			minScore: 0.7,
			minGap:   0.15,
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.cands.HighConfidence(tt.minScore, tt.minGap)
			if (result == nil) != tt.wantNil {
				t.Errorf("HighConfidence() returned nil=%v, want nil=%v", result == nil, tt.wantNil)
			}
		})
	}
}

func TestCalculateCombinedScore(t *testing.T) {
	tests := []struct {
		nameScore  float64
		typeCompat TypeCompatibility
		minScore   float64
		maxScore   float64
	}{
		// Perfect match
		{1.0, TypeIdentical, 0.99, 1.01},
		// Good name, identical type
		{0.8, TypeIdentical, 0.85, 0.95},
		// Perfect name, needs transform
		{1.0, TypeNeedsTransform, 0.7, 0.8},
		// No name match, identical type
		{0.0, TypeIdentical, 0.35, 0.45},
		// No match at all
		{0.0, TypeIncompatible, -0.01, 0.01},
	}

	for i, tt := range tests {
		score := calculateCombinedScore(tt.nameScore, tt.typeCompat, true)
		if score < tt.minScore || score > tt.maxScore {
			t.Errorf("Test %d: calculateCombinedScore(%f, %v) = %f, want in [%f, %f]",
				i, tt.nameScore, tt.typeCompat, score, tt.minScore, tt.maxScore)
		}
	}
}

func TestRankCandidates_Determinism(t *testing.T) {
	// Run ranking multiple times to verify deterministic ordering
	intType := reflect.TypeFor[int]()

	members := []Member{
		{Name: "ValueB", Type: intType},
		{Name: "ValueA", Type: intType},
		{Name: "ValueC", Type: intType},
	}

	// All have similar scores, so tie-breaker (alphabetical) should be consistent
	firstRun := RankCandidates("Value", intType, members)
	for i := 0; i < 10; i++ {
		nextRun := RankCandidates("Value", intType, members)
		for j := range firstRun {
			if firstRun[j].Member.Name != nextRun[j].Member.Name {
				t.Errorf("Run %d: position %d has '%s', expected '%s'",
					i, j, nextRun[j].Member.Name, firstRun[j].Member.Name)
			}
		}
	}

	if best := firstRun.Best(); best.Member.Name != "ValueA" {
		t.Errorf("Expected alphabetical tie-break, got %s", best.Member.Name)
	}
}
