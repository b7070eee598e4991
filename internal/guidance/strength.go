package guidance

// Dimension names one of the three assessed dimensions.
type Dimension string

const (
	DimensionCulture    Dimension = "culture"
	DimensionCompetence Dimension = "competence"
	DimensionCommitment Dimension = "commitment"
)

// IdentifyStrength returns the dimension that is relatively strongest once
// each score is normalized to [0,1] over its own scale.
// Ties resolve to culture, then commitment, then competence.
func IdentifyStrength(culture, competence, commitment int) Dimension {
	cultureNorm := float64(culture-1) / 9
	competenceNorm := float64(competence-1) / 4
	commitmentNorm := float64(commitment-1) / 2

	if cultureNorm >= competenceNorm && cultureNorm >= commitmentNorm {
		return DimensionCulture
	}
	if commitmentNorm >= competenceNorm {
		return DimensionCommitment
	}
	return DimensionCompetence
}
