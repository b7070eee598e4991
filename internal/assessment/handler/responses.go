package handler

import (
	"time"

	"threecs/internal/assessment/service"
	"threecs/internal/guidance"
	"threecs/internal/scoring"
)

// SubmitResponse is returned once a submission is saved.
type SubmitResponse struct {
	SessionToken string        `json:"sessionToken"`
	Results      []ResultEntry `json:"results"`
	Warning      string        `json:"warning,omitempty"`
}

type ResultEntry struct {
	Name        string             `json:"name"`
	FinalRating int                `json:"finalRating"`
	Grade       scoring.Grade      `json:"grade"`
	Archetype   guidance.Archetype `json:"archetype"`
	Guidance    string             `json:"guidance"`
}

// HistoryResponse lists a stored submission.
type HistoryResponse struct {
	Assessment AssessmentEntry `json:"assessment"`
	People     []PersonEntry   `json:"people"`
}

type AssessmentEntry struct {
	ID            string    `json:"id"`
	AssessorEmail string    `json:"assessorEmail"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PersonEntry struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Culture     int                `json:"culture"`
	Competence  int                `json:"competence"`
	Commitment  int                `json:"commitment"`
	FinalRating int                `json:"finalRating"`
	Grade       scoring.Grade      `json:"grade"`
	GuidanceKey guidance.Archetype `json:"guidanceKey"`
	HasPDF      bool               `json:"hasPdf"`
}

// PreviewResponse carries the live preview. Only Scorable is set when any
// score is missing.
type PreviewResponse struct {
	Scorable    bool             `json:"scorable"`
	FinalRating int              `json:"finalRating,omitempty"`
	Grade       scoring.Grade    `json:"grade,omitempty"`
	Guidance    *guidance.Record `json:"guidance,omitempty"`
}

// LabelsResponse is the slider helper text and grade labels.
type LabelsResponse struct {
	Culture    map[int]string           `json:"culture"`
	Competence map[int]string           `json:"competence"`
	Commitment map[int]string           `json:"commitment"`
	Grades     map[scoring.Grade]string `json:"grades"`
}

func toSubmitResponse(res *service.SubmitResult) SubmitResponse {
	out := SubmitResponse{
		SessionToken: res.Assessment.SessionToken.String(),
		Results:      make([]ResultEntry, len(res.Results)),
		Warning:      res.Warning,
	}
	for i, r := range res.Results {
		out.Results[i] = ResultEntry{
			Name:        r.Person.Name,
			FinalRating: r.Person.FinalRating,
			Grade:       r.Person.Grade,
			Archetype:   r.Guidance.Key,
			Guidance:    r.Guidance.Summary,
		}
	}
	return out
}

func toHistoryResponse(h *service.History) HistoryResponse {
	out := HistoryResponse{
		Assessment: AssessmentEntry{
			ID:            h.Assessment.ID.String(),
			AssessorEmail: h.Assessment.AssessorEmail,
			CreatedAt:     h.Assessment.CreatedAt,
		},
		People: make([]PersonEntry, len(h.People)),
	}
	for i, p := range h.People {
		out.People[i] = PersonEntry{
			ID:          p.ID.String(),
			Name:        p.Name,
			Culture:     p.Culture,
			Competence:  p.Competence,
			Commitment:  p.Commitment,
			FinalRating: p.FinalRating,
			Grade:       p.Grade,
			GuidanceKey: p.GuidanceKey,
			HasPDF:      p.HasPDF,
		}
	}
	return out
}

func toPreviewResponse(p *service.PreviewResult) PreviewResponse {
	if !p.Scorable {
		return PreviewResponse{Scorable: false}
	}
	g := p.Guidance
	return PreviewResponse{
		Scorable:    true,
		FinalRating: p.Score.FinalRating,
		Grade:       p.Score.Grade,
		Guidance:    &g,
	}
}

func labelsResponse() LabelsResponse {
	tables := guidance.LabelTables()
	grades := make(map[scoring.Grade]string, len(scoring.Grades))
	for _, g := range scoring.Grades {
		grades[g] = guidance.GradeLabel(g)
	}
	return LabelsResponse{
		Culture:    tables[guidance.DimensionCulture],
		Competence: tables[guidance.DimensionCompetence],
		Commitment: tables[guidance.DimensionCommitment],
		Grades:     grades,
	}
}
