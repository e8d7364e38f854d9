// Package confidence grades extracted symbol groups on five heuristic quality
// factors and combines them into a weighted 0-100 score with a letter grade.
package confidence

import "math"

// Grade is a letter summary of a confidence score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Factors holds the five independent factor scores, each in [0,100].
type Factors struct {
	Documentation int `json:"documentation" yaml:"documentation"`
	Naming        int `json:"naming" yaml:"naming"`
	Structure     int `json:"structure" yaml:"structure"`
	TestCoverage  int `json:"test_coverage" yaml:"test_coverage"`
	Typing        int `json:"typing" yaml:"typing"`
}

// Result is the graded outcome for one symbol or one aggregated group.
// It is a pure function of its inputs; no hidden state.
type Result struct {
	Score       int      `json:"score" yaml:"score"`
	Grade       Grade    `json:"grade" yaml:"grade"`
	Factors     Factors  `json:"factors" yaml:"factors"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// Factor weights for the combined score.
const (
	weightDocumentation = 0.25
	weightNaming        = 0.20
	weightStructure     = 0.15
	weightTestCoverage  = 0.20
	weightTyping        = 0.20
)

// Combine folds factor scores into the weighted overall score.
func Combine(f Factors) int {
	score := weightDocumentation*float64(f.Documentation) +
		weightNaming*float64(f.Naming) +
		weightStructure*float64(f.Structure) +
		weightTestCoverage*float64(f.TestCoverage) +
		weightTyping*float64(f.Typing)
	return clamp(int(math.Round(score)))
}

// GradeFor maps a score to its letter band.
func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// Aggregate combines member results into a batch result. Factor scores are
// arithmetic means; the grade follows the strictest-common-grade rule: A only
// if every member is A, else B only if every member is A or B, else C only if
// every member is at least C, else F if any member is F, else D. The rule
// propagates F instead of averaging it away, which is intentional acceptance
// behavior.
func Aggregate(results []Result) Result {
	if len(results) == 0 {
		return Result{Grade: GradeF}
	}

	var sum Factors
	var scoreSum int
	seen := make(map[string]bool)
	var suggestions []string
	for _, r := range results {
		sum.Documentation += r.Factors.Documentation
		sum.Naming += r.Factors.Naming
		sum.Structure += r.Factors.Structure
		sum.TestCoverage += r.Factors.TestCoverage
		sum.Typing += r.Factors.Typing
		scoreSum += r.Score
		for _, s := range r.Suggestions {
			if !seen[s] {
				seen[s] = true
				suggestions = append(suggestions, s)
			}
		}
	}

	n := len(results)
	mean := func(total int) int { return int(math.Round(float64(total) / float64(n))) }

	return Result{
		Score: mean(scoreSum),
		Grade: strictestCommonGrade(results),
		Factors: Factors{
			Documentation: mean(sum.Documentation),
			Naming:        mean(sum.Naming),
			Structure:     mean(sum.Structure),
			TestCoverage:  mean(sum.TestCoverage),
			Typing:        mean(sum.Typing),
		},
		Suggestions: suggestions,
	}
}

func strictestCommonGrade(results []Result) Grade {
	allA, allAB, allABC, anyF := true, true, true, false
	for _, r := range results {
		switch r.Grade {
		case GradeA:
		case GradeB:
			allA = false
		case GradeC:
			allA, allAB = false, false
		case GradeD:
			allA, allAB, allABC = false, false, false
		case GradeF:
			allA, allAB, allABC = false, false, false
			anyF = true
		}
	}
	switch {
	case allA:
		return GradeA
	case allAB:
		return GradeB
	case allABC:
		return GradeC
	case anyF:
		return GradeF
	default:
		return GradeD
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
