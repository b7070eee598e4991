// Package guidance turns 3Cs scores into narrative coaching guidance.
//
// A score triple is classified into one of eleven archetypes by an ordered
// rule table, the relatively strongest dimension is identified, and the
// static text for both is assembled into a Record together with the grade label.
// Everything here is pure and safe for concurrent use.
package guidance

import (
	"strings"

	"threecs/internal/scoring"
)

// Section headings used in Record.Detail.
const (
	HeadingPrimaryFocus   = "Primary Coaching Focus"
	HeadingManagerActions = "Manager Action Guidance"
	HeadingStrength       = "Strength Reinforcement"
)

// Record is the composed guidance for one person.
type Record struct {
	Key                   Archetype     `json:"key"`
	Grade                 scoring.Grade `json:"grade"`
	Label                 string        `json:"label"`
	Strength              Dimension     `json:"strength"`
	Summary               string        `json:"summary"`
	PrimaryFocus          string        `json:"primaryFocus"`
	ManagerActions        string        `json:"managerActions"`
	StrengthReinforcement string        `json:"strengthReinforcement"`
	Detail                string        `json:"detail"`
}

// Composer produces guidance records.
type Composer interface {
	Generate(culture, competence, commitment int, grade scoring.Grade) Record
}

// Generate composes the guidance record for in-range scores and the grade
// already derived from them.
func Generate(culture, competence, commitment int, grade scoring.Grade) Record {
	archetype := DetectArchetype(culture, competence, commitment)
	strength := IdentifyStrength(culture, competence, commitment)
	content := archetypeContent[archetype]
	reinforcement := strengthText[strength]

	return Record{
		Key:                   archetype,
		Grade:                 grade,
		Label:                 GradeLabel(grade),
		Strength:              strength,
		Summary:               content.summary,
		PrimaryFocus:          content.primaryFocus,
		ManagerActions:        content.managerActions,
		StrengthReinforcement: reinforcement,
		Detail:                composeDetail(content.primaryFocus, content.managerActions, reinforcement),
	}
}

func composeDetail(primaryFocus, managerActions, strength string) string {
	return strings.Join([]string{
		HeadingPrimaryFocus,
		primaryFocus,
		"",
		HeadingManagerActions,
		managerActions,
		"",
		HeadingStrength,
		strength,
	}, "\n")
}

// Pure is the uncached Composer.
type Pure struct{}

// Generate implements Composer.
func (Pure) Generate(culture, competence, commitment int, grade scoring.Grade) Record {
	return Generate(culture, competence, commitment, grade)
}
