package guidance

import "strings"

// Archetype is a behavioral profile derived from the raw 3Cs scores.
type Archetype string

const (
	HighConfidenceFit        Archetype = "high_confidence_fit"
	StrongContributor        Archetype = "strong_contributor"
	DisengagedHighPerformer  Archetype = "disengaged_high_performer"
	CultureCarrierSkillGap   Archetype = "culture_carrier_skill_gap"
	WrongSeatRightBus        Archetype = "wrong_seat_right_bus"
	CapableButInconsistent   Archetype = "capable_but_inconsistent"
	CulturalMisalignmentRisk Archetype = "cultural_misalignment_risk"
	LowCultureLowCommitment  Archetype = "low_culture_low_commitment"
	LowSkillLowCommitment    Archetype = "low_skill_low_commitment"
	LowCommitment            Archetype = "low_commitment"
	DevelopingContributor    Archetype = "developing_contributor"
)

// Archetypes lists every archetype in rule priority order.
var Archetypes = []Archetype{
	HighConfidenceFit,
	StrongContributor,
	DisengagedHighPerformer,
	CultureCarrierSkillGap,
	WrongSeatRightBus,
	CapableButInconsistent,
	CulturalMisalignmentRisk,
	LowCultureLowCommitment,
	LowSkillLowCommitment,
	LowCommitment,
	DevelopingContributor,
}

// IsValid reports whether a is a known archetype.
func (a Archetype) IsValid() bool {
	_, ok := archetypeContent[a]
	return ok
}

// Title renders the archetype key as a heading, e.g. "Strong Contributor".
func (a Archetype) Title() string {
	words := strings.Split(string(a), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

type scores struct {
	culture, competence, commitment int
}

type archetypeRule struct {
	archetype Archetype
	matches   func(s scores) bool
}

// archetypeRules is evaluated top to bottom and the first match wins.
// The last entry always matches and must stay last.
var archetypeRules = []archetypeRule{
	// Rule 1: top of every dimension
	{HighConfidenceFit, func(s scores) bool {
		return s.culture >= 9 && s.competence >= 4 && s.commitment == 3
	}},
	// Rule 2: strong but not exceptional culture
	{StrongContributor, func(s scores) bool {
		return s.culture >= 7 && s.culture <= 8 && s.competence >= 4 && s.commitment == 3
	}},
	// Rule 3: capable and aligned, not invested
	{DisengagedHighPerformer, func(s scores) bool {
		return s.commitment == 1 && s.competence >= 4 && s.culture >= 7
	}},
	// Rule 4
	{CultureCarrierSkillGap, func(s scores) bool {
		return s.culture >= 9 && s.competence <= 2 && s.commitment >= 2
	}},
	// Rule 5
	{WrongSeatRightBus, func(s scores) bool {
		return s.culture >= 7 && s.competence <= 2 && s.commitment >= 2
	}},
	// Rule 6
	{CapableButInconsistent, func(s scores) bool {
		return s.competence == 3 && s.commitment >= 2 && s.culture >= 7
	}},
	// Rule 7
	{CulturalMisalignmentRisk, func(s scores) bool {
		return s.culture <= 6 && s.competence >= 3 && s.commitment >= 2
	}},
	// Rule 8
	{LowCultureLowCommitment, func(s scores) bool {
		return s.culture <= 6 && s.commitment == 1
	}},
	// Rule 9
	{LowSkillLowCommitment, func(s scores) bool {
		return s.competence <= 2 && s.commitment == 1
	}},
	// Rule 10
	{LowCommitment, func(s scores) bool {
		return s.commitment == 1
	}},
	// Rule 11: fallback
	{DevelopingContributor, func(scores) bool { return true }},
}

// DetectArchetype classifies valid, in-range scores into exactly one archetype.
// Callers validate ranges; out-of-range inputs still resolve deterministically.
func DetectArchetype(culture, competence, commitment int) Archetype {
	s := scores{culture: culture, competence: competence, commitment: commitment}
	for _, rule := range archetypeRules {
		if rule.matches(s) {
			return rule.archetype
		}
	}
	return DevelopingContributor
}
