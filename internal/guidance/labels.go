package guidance

import "maps"

// Helper text shown next to each slider position.
var (
	cultureLabels = map[int]string{
		1:  "Strongly misaligned with organizational values",
		2:  "Significant cultural gaps observed",
		3:  "Notable misalignment in key areas",
		4:  "Below-average cultural fit",
		5:  "Average — some alignment, some gaps",
		6:  "Above-average cultural alignment",
		7:  "Good cultural fit with minor gaps",
		8:  "Strong cultural alignment",
		9:  "Excellent cultural fit",
		10: "Exceptional — fully embodies the culture",
	}
	competenceLabels = map[int]string{
		1: "Lacks required skills for the role",
		2: "Below expectations — significant skill gaps",
		3: "Meets baseline requirements, but impact is limited",
		4: "Above average — solid skill set",
		5: "Exceptional — exceeds all competence expectations",
	}
	commitmentLabels = map[int]string{
		1: "Disengaged — minimal ownership or investment",
		2: "Participates, but ownership is inconsistent",
		3: "Fully invested — demonstrates ownership and initiative",
	}
)

// CultureLabel returns the helper text for a culture score, or "" when out of range.
func CultureLabel(v int) string { return cultureLabels[v] }

// CompetenceLabel returns the helper text for a competence score.
func CompetenceLabel(v int) string { return competenceLabels[v] }

// CommitmentLabel returns the helper text for a commitment score.
func CommitmentLabel(v int) string { return commitmentLabels[v] }

// LabelTables is the full set of slider helper text keyed by dimension.
func LabelTables() map[Dimension]map[int]string {
	return map[Dimension]map[int]string{
		DimensionCulture:    maps.Clone(cultureLabels),
		DimensionCompetence: maps.Clone(competenceLabels),
		DimensionCommitment: maps.Clone(commitmentLabels),
	}
}
