package confidence

import "testing"

func TestCombine_Weighted(t *testing.T) {
	f := Factors{Documentation: 100, Naming: 100, Structure: 100, TestCoverage: 100, Typing: 100}
	if got := Combine(f); got != 100 {
		t.Errorf("Expected 100, got %d", got)
	}

	f = Factors{}
	if got := Combine(f); got != 0 {
		t.Errorf("Expected 0, got %d", got)
	}

	// Documentation carries weight 0.25, so documentation alone scores 25.
	f = Factors{Documentation: 100}
	if got := Combine(f); got != 25 {
		t.Errorf("Expected 25, got %d", got)
	}

	f = Factors{Structure: 100}
	if got := Combine(f); got != 15 {
		t.Errorf("Expected 15, got %d", got)
	}
}

func TestGradeFor_Bands(t *testing.T) {
	tests := []struct {
		score int
		want  Grade
	}{
		{100, GradeA},
		{90, GradeA},
		{89, GradeB},
		{80, GradeB},
		{79, GradeC},
		{70, GradeC},
		{69, GradeD},
		{60, GradeD},
		{59, GradeF},
		{0, GradeF},
	}
	for _, tt := range tests {
		if got := GradeFor(tt.score); got != tt.want {
			t.Errorf("GradeFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestAggregate_StrictestCommonGrade(t *testing.T) {
	mk := func(grades ...Grade) []Result {
		out := make([]Result, len(grades))
		for i, g := range grades {
			out[i] = Result{Grade: g}
		}
		return out
	}

	tests := []struct {
		name    string
		results []Result
		want    Grade
	}{
		{"all A", mk(GradeA, GradeA), GradeA},
		{"A and B", mk(GradeA, GradeA, GradeB), GradeB},
		{"A B C", mk(GradeA, GradeB, GradeC), GradeC},
		{"D drags to D", mk(GradeA, GradeB, GradeD), GradeD},
		{"any F propagates", mk(GradeA, GradeC, GradeF), GradeF},
		{"single F", mk(GradeF), GradeF},
		{"all B", mk(GradeB, GradeB), GradeB},
	}
	for _, tt := range tests {
		if got := Aggregate(tt.results).Grade; got != tt.want {
			t.Errorf("%s: got grade %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestAggregate_MeansAndSuggestions(t *testing.T) {
	results := []Result{
		{
			Score:       80,
			Grade:       GradeB,
			Factors:     Factors{Documentation: 100, Naming: 80, Structure: 60, TestCoverage: 40, Typing: 20},
			Suggestions: []string{"Add a test file covering this symbol"},
		},
		{
			Score:       60,
			Grade:       GradeD,
			Factors:     Factors{Documentation: 0, Naming: 80, Structure: 40, TestCoverage: 40, Typing: 60},
			Suggestions: []string{"Add a test file covering this symbol", "Add explicit type annotations to the signature"},
		},
	}

	agg := Aggregate(results)
	if agg.Score != 70 {
		t.Errorf("Expected mean score 70, got %d", agg.Score)
	}
	if agg.Factors.Documentation != 50 {
		t.Errorf("Expected documentation mean 50, got %d", agg.Factors.Documentation)
	}
	if agg.Factors.Naming != 80 {
		t.Errorf("Expected naming mean 80, got %d", agg.Factors.Naming)
	}
	if len(agg.Suggestions) != 2 {
		t.Errorf("Expected 2 deduplicated suggestions, got %d: %v", len(agg.Suggestions), agg.Suggestions)
	}
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil)
	if agg.Grade != GradeF {
		t.Errorf("Expected empty aggregate to grade F, got %s", agg.Grade)
	}
	if agg.Score != 0 {
		t.Errorf("Expected empty aggregate score 0, got %d", agg.Score)
	}
}
