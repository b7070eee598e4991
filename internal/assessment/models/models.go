// Package models holds the persisted assessment aggregate.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"threecs/internal/guidance"
	"threecs/internal/scoring"
	dErrors "threecs/pkg/domain-errors"
)

// Submission limits.
const (
	MaxPeople     = 25
	MaxNameLength = 200
)

// Assessment is one submission by an assessor covering one or more people.
// SessionToken is the unguessable handle used by the history link.
type Assessment struct {
	ID            uuid.UUID
	SessionToken  uuid.UUID
	AssessorEmail string
	CreatedAt     time.Time
}

// NewAssessment creates an Assessment with fresh identifiers.
func NewAssessment(assessorEmail string, now time.Time) (*Assessment, error) {
	assessorEmail = strings.TrimSpace(assessorEmail)
	if assessorEmail == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "assessor email cannot be empty")
	}
	return &Assessment{
		ID:            uuid.New(),
		SessionToken:  uuid.New(),
		AssessorEmail: assessorEmail,
		CreatedAt:     now,
	}, nil
}

// Person is a scored individual within an assessment. Narrative guidance is
// never stored; GuidanceKey records the archetype so it can be regenerated.
type Person struct {
	ID           uuid.UUID
	AssessmentID uuid.UUID
	Position     int
	Name         string
	Culture      int
	Competence   int
	Commitment   int
	FinalRating  int
	Grade        scoring.Grade
	GuidanceKey  guidance.Archetype
	CreatedAt    time.Time
}

// NewPerson scores the inputs and returns the person to persist.
func NewPerson(assessmentID uuid.UUID, position int, name string, culture, competence, commitment int, now time.Time) (*Person, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("person name must be 1-%d characters", MaxNameLength))
	}
	inputs := scoring.Inputs(culture, competence, commitment)
	if !inputs.InRange() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "scores out of range")
	}
	score, _ := scoring.ComputeScore(inputs)

	return &Person{
		ID:           uuid.New(),
		AssessmentID: assessmentID,
		Position:     position,
		Name:         name,
		Culture:      culture,
		Competence:   competence,
		Commitment:   commitment,
		FinalRating:  score.FinalRating,
		Grade:        score.Grade,
		GuidanceKey:  guidance.DetectArchetype(culture, competence, commitment),
		CreatedAt:    now,
	}, nil
}

// Inputs returns the person's raw scores.
func (p *Person) Inputs() scoring.ScoreInputs {
	return scoring.Inputs(p.Culture, p.Competence, p.Commitment)
}

// PersonSummary is a person as listed in history, with PDF availability.
type PersonSummary struct {
	Person
	HasPDF bool
}

// PDFArtifact points at a rendered report in object storage.
type PDFArtifact struct {
	PersonID    uuid.UUID
	StoragePath string
	CreatedAt   time.Time
}

// ArtifactPath is the object path for a person's report.
func ArtifactPath(assessmentID, personID uuid.UUID) string {
	return assessmentID.String() + "/" + personID.String() + ".pdf"
}
