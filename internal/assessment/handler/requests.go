package handler

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"threecs/internal/assessment/service"
	"threecs/internal/scoring"
	dErrors "threecs/pkg/domain-errors"
)

var (
	validate    = validator.New(validator.WithRequiredStructEnabled())
	namesPolicy = bluemonday.StrictPolicy()
)

// SubmitRequest is the body of POST /api/assessments.
type SubmitRequest struct {
	AssessorEmail string          `json:"assessorEmail" validate:"required,email"`
	People        []PersonRequest `json:"people" validate:"required,min=1,max=25,dive"`
}

// PersonRequest is one person's scores.
type PersonRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Culture    int    `json:"culture" validate:"min=1,max=10"`
	Competence int    `json:"competence" validate:"min=1,max=5"`
	Commitment int    `json:"commitment" validate:"min=1,max=3"`
}

// Validate strips markup from names, trims fields and checks bounds.
func (r *SubmitRequest) Validate() error {
	r.AssessorEmail = strings.TrimSpace(r.AssessorEmail)
	for i := range r.People {
		r.People[i].Name = sanitizeName(r.People[i].Name)
	}
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

// Command converts the request to the service command.
func (r *SubmitRequest) Command() service.SubmitCommand {
	people := make([]service.PersonInput, len(r.People))
	for i, p := range r.People {
		people[i] = service.PersonInput{
			Name:       p.Name,
			Culture:    p.Culture,
			Competence: p.Competence,
			Commitment: p.Commitment,
		}
	}
	return service.SubmitCommand{AssessorEmail: r.AssessorEmail, People: people}
}

// PreviewRequest is the body of POST /api/preview. Absent scores are allowed.
type PreviewRequest struct {
	Culture    *int `json:"culture" validate:"omitempty,min=1,max=10"`
	Competence *int `json:"competence" validate:"omitempty,min=1,max=5"`
	Commitment *int `json:"commitment" validate:"omitempty,min=1,max=3"`
}

func (r *PreviewRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

func (r *PreviewRequest) Inputs() scoring.ScoreInputs {
	return scoring.ScoreInputs{Culture: r.Culture, Competence: r.Competence, Commitment: r.Commitment}
}

// sanitizeName removes any HTML and returns plain text. Entities are decoded
// because names are escaped again wherever they are rendered.
func sanitizeName(name string) string {
	return strings.TrimSpace(html.UnescapeString(namesPolicy.Sanitize(name)))
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeValidation, "Validation failed")
	}
	return dErrors.New(dErrors.CodeValidation, fieldMessage(verrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.StructField() {
	case "AssessorEmail":
		return "Valid email is required"
	case "People":
		if fe.Tag() == "max" {
			return fmt.Sprintf("Maximum %s people per session", fe.Param())
		}
		return "At least one person is required"
	case "Name":
		if fe.Tag() == "max" {
			return fmt.Sprintf("Name must be at most %s characters", fe.Param())
		}
		return "Name is required"
	case "Culture":
		return fmt.Sprintf("culture must be between %d and %d", scoring.MinCulture, scoring.MaxCulture)
	case "Competence":
		return fmt.Sprintf("competence must be between %d and %d", scoring.MinCompetence, scoring.MaxCompetence)
	case "Commitment":
		return fmt.Sprintf("commitment must be between %d and %d", scoring.MinCommitment, scoring.MaxCommitment)
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
