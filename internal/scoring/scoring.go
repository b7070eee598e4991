// Package scoring derives the numeric rating and letter grade for a 3Cs assessment.
//
// Culture is scored 1-10, Competence 1-5 and Commitment 1-3. The final rating is
// the product of the three scaled into the 1-100 range, so a single weak
// dimension pulls the whole rating down.
package scoring

import "math"

// Dimension bounds.
const (
	MinCulture    = 1
	MaxCulture    = 10
	MinCompetence = 1
	MaxCompetence = 5
	MinCommitment = 1
	MaxCommitment = 3
)

// Grade is the letter grade derived from a final rating.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
)

// Grades lists every grade from best to worst.
var Grades = []Grade{GradeAPlus, GradeA, GradeB, GradeC, GradeD}

// IsValid reports whether g is one of the five supported grades.
func (g Grade) IsValid() bool {
	switch g {
	case GradeAPlus, GradeA, GradeB, GradeC, GradeD:
		return true
	}
	return false
}

// String returns the grade as displayed.
func (g Grade) String() string {
	return string(g)
}

// ScoreInputs carries the three raw dimension scores. A nil field means the
// assessor has not provided that score yet.
type ScoreInputs struct {
	Culture    *int `json:"culture"`
	Competence *int `json:"competence"`
	Commitment *int `json:"commitment"`
}

// Inputs builds a fully populated ScoreInputs.
func Inputs(culture, competence, commitment int) ScoreInputs {
	return ScoreInputs{Culture: &culture, Competence: &competence, Commitment: &commitment}
}

// Complete reports whether all three scores are present.
func (in ScoreInputs) Complete() bool {
	return in.Culture != nil && in.Competence != nil && in.Commitment != nil
}

// InRange reports whether every present score lies within its dimension bounds.
func (in ScoreInputs) InRange() bool {
	if in.Culture != nil && !CultureInRange(*in.Culture) {
		return false
	}
	if in.Competence != nil && !CompetenceInRange(*in.Competence) {
		return false
	}
	if in.Commitment != nil && !CommitmentInRange(*in.Commitment) {
		return false
	}
	return true
}

func CultureInRange(v int) bool    { return v >= MinCulture && v <= MaxCulture }
func CompetenceInRange(v int) bool { return v >= MinCompetence && v <= MaxCompetence }
func CommitmentInRange(v int) bool { return v >= MinCommitment && v <= MaxCommitment }

// ScoreResult is the derived rating and grade for a complete set of inputs.
type ScoreResult struct {
	FinalRating int   `json:"finalRating"`
	Grade       Grade `json:"grade"`
}

// ComputeFinalRating returns round(culture * competence * commitment * 2/3).
// ok is false when any score is absent. Ranges are not checked here.
func ComputeFinalRating(in ScoreInputs) (rating int, ok bool) {
	if !in.Complete() {
		return 0, false
	}
	product := float64(*in.Culture) * float64(*in.Competence) * float64(*in.Commitment)
	// math.Round rounds half away from zero; products here are never negative.
	return int(math.Round(product * 2 / 3)), true
}

// GetGrade maps a rating onto a letter grade using strict lower bounds.
func GetGrade(rating int) Grade {
	switch {
	case rating > 89:
		return GradeAPlus
	case rating > 70:
		return GradeA
	case rating > 50:
		return GradeB
	case rating > 30:
		return GradeC
	default:
		return GradeD
	}
}

// ComputeScore combines ComputeFinalRating and GetGrade.
func ComputeScore(in ScoreInputs) (ScoreResult, bool) {
	rating, ok := ComputeFinalRating(in)
	if !ok {
		return ScoreResult{}, false
	}
	return ScoreResult{FinalRating: rating, Grade: GetGrade(rating)}, true
}
