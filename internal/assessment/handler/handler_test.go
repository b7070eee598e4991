package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"threecs/internal/assessment/handler/mocks"
	"threecs/internal/assessment/models"
	"threecs/internal/assessment/service"
	"threecs/internal/guidance"
	"threecs/internal/platform/logger"
	"threecs/internal/scoring"
	dErrors "threecs/pkg/domain-errors"
	"threecs/pkg/testutil"
)

type AssessmentHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestAssessmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(AssessmentHandlerSuite))
}

func (s *AssessmentHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.service, logger.Discard()).Register(s.router)
}

func validBody() map[string]any {
	return map[string]any{
		"assessorEmail": "  manager@example.com ",
		"people": []map[string]any{
			{"name": "<b>Ada</b> Lovelace", "culture": 7, "competence": 4, "commitment": 3},
		},
	}
}

func submitResult(warning string) *service.SubmitResult {
	a := &models.Assessment{ID: uuid.New(), SessionToken: uuid.New(), AssessorEmail: "manager@example.com"}
	p := &models.Person{ID: uuid.New(), Name: "Ada Lovelace", Culture: 7, Competence: 4, Commitment: 3, FinalRating: 56, Grade: scoring.GradeB, GuidanceKey: guidance.StrongContributor}
	return &service.SubmitResult{
		Assessment: a,
		Results:    []service.PersonResult{{Person: p, Guidance: guidance.Generate(7, 4, 3, scoring.GradeB)}},
		Warning:    warning,
	}
}

func (s *AssessmentHandlerSuite) TestSubmit() {
	s.Run("saves sanitized input", func() {
		res := submitResult("")
		s.service.EXPECT().Submit(gomock.Any(), service.SubmitCommand{
			AssessorEmail: "manager@example.com",
			People:        []service.PersonInput{{Name: "Ada Lovelace", Culture: 7, Competence: 4, Commitment: 3}},
		}).Return(res, nil)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/assessments", validBody()))
		s.Equal(http.StatusOK, rr.Code)

		var body map[string]any
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
		s.Equal(res.Assessment.SessionToken.String(), body["sessionToken"])
		s.NotContains(body, "warning")
		results := body["results"].([]any)
		s.Require().Len(results, 1)
		first := results[0].(map[string]any)
		s.Equal("Ada Lovelace", first["name"])
		s.Equal(float64(56), first["finalRating"])
		s.Equal("B", first["grade"])
		s.Equal("strong_contributor", first["archetype"])
		s.Equal(res.Results[0].Guidance.Summary, first["guidance"])
	})

	s.Run("email warning is returned", func() {
		s.service.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(submitResult(service.EmailFailedWarning), nil)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/assessments", validBody()))
		s.Equal(http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[SubmitResponse](s.T(), rr)
		s.Equal(service.EmailFailedWarning, resp.Warning)
	})

	s.Run("store failure hides details", func() {
		s.service.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "Failed to save assessment"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/assessments", validBody()))
		s.Equal(http.StatusInternalServerError, rr.Code)
		s.NotContains(rr.Body.String(), "pq:")
	})

	s.Run("malformed json", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/assessments", "{"))
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *AssessmentHandlerSuite) TestSubmitValidation() {
	person := func(name string, culture, competence, commitment int) map[string]any {
		return map[string]any{"name": name, "culture": culture, "competence": competence, "commitment": commitment}
	}
	many := make([]map[string]any, 26)
	for i := range many {
		many[i] = person("P", 5, 3, 2)
	}

	cases := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{"bad email", map[string]any{"assessorEmail": "nope", "people": []map[string]any{person("A", 5, 3, 2)}}, "Valid email is required"},
		{"no people", map[string]any{"assessorEmail": "a@example.com", "people": []map[string]any{}}, "At least one person is required"},
		{"people missing", map[string]any{"assessorEmail": "a@example.com"}, "At least one person is required"},
		{"too many people", map[string]any{"assessorEmail": "a@example.com", "people": many}, "Maximum 25 people per session"},
		{"blank name", map[string]any{"assessorEmail": "a@example.com", "people": []map[string]any{person("   ", 5, 3, 2)}}, "Name is required"},
		{"markup only name", map[string]any{"assessorEmail": "a@example.com", "people": []map[string]any{person("<script>alert(1)</script>", 5, 3, 2)}}, "Name is required"},
		{"long name", map[string]any{"assessorEmail": "a@example.com", "people": []map[string]any{person(strings.Repeat("n", 201), 5, 3, 2)}}, "Name must be at most 200 characters"},
		{"culture high", map[string]any{"assessorEmail": "a@example.com", "people": []map[string]any{person("A", 11, 3, 2)}}, "culture must be between 1 and 10"},
		{"competence missing", map[string]any{"assessorEmail": "a@example.com", "people": []map[string]any{{"name": "A", "culture": 5, "commitment": 2}}}, "competence must be between 1 and 5"},
		{"commitment high", map[string]any{"assessorEmail": "a@example.com", "people": []map[string]any{person("A", 5, 3, 4)}}, "commitment must be between 1 and 3"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/assessments", tc.body))
			s.Equal(http.StatusBadRequest, rr.Code)
			resp := testutil.UnmarshalErrorResponse(s.T(), rr)
			s.Equal("validation_error", resp["error"])
			s.Equal(tc.message, resp["error_description"])
		})
	}
}

func (s *AssessmentHandlerSuite) TestSubmitMiddlewareOnlyWrapsSubmit() {
	ctrl := gomock.NewController(s.T())
	svc := mocks.NewMockService(ctrl)
	router := chi.NewRouter()
	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	New(svc, logger.Discard(), WithSubmitMiddleware(blocked)).Register(router)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/assessments", validBody()))
	s.Equal(http.StatusTooManyRequests, rr.Code)

	rr = testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/api/labels"))
	s.Equal(http.StatusOK, rr.Code)
}

func (s *AssessmentHandlerSuite) TestGetAssessment() {
	token := uuid.New()
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	s.Run("found", func() {
		personID := uuid.New()
		s.service.EXPECT().GetByToken(gomock.Any(), token.String()).Return(&service.History{
			Assessment: &models.Assessment{ID: uuid.New(), SessionToken: token, AssessorEmail: "a@example.com", CreatedAt: created},
			People: []models.PersonSummary{{
				Person: models.Person{ID: personID, Name: "Ada", Culture: 7, Competence: 4, Commitment: 3, FinalRating: 56, Grade: scoring.GradeB, GuidanceKey: guidance.StrongContributor},
				HasPDF: true,
			}},
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/assessments/"+token.String()))
		s.Equal(http.StatusOK, rr.Code)
		body := rr.Body.String()
		resp := testutil.UnmarshalResponse[HistoryResponse](s.T(), rr)
		s.Equal("a@example.com", resp.Assessment.AssessorEmail)
		s.True(created.Equal(resp.Assessment.CreatedAt))
		s.Require().Len(resp.People, 1)
		s.Equal(personID.String(), resp.People[0].ID)
		s.Equal(guidance.StrongContributor, resp.People[0].GuidanceKey)
		s.True(resp.People[0].HasPDF)
		s.Contains(body, `"hasPdf":true`)
	})

	s.Run("unknown", func() {
		s.service.EXPECT().GetByToken(gomock.Any(), "missing").Return(nil, dErrors.New(dErrors.CodeNotFound, "Assessment not found"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/assessments/missing"))
		s.Equal(http.StatusNotFound, rr.Code)
		s.Equal("Assessment not found", testutil.UnmarshalErrorResponse(s.T(), rr)["error_description"])
	})
}

func (s *AssessmentHandlerSuite) TestDownloadPDF() {
	s.Run("redirects to signed link", func() {
		s.service.EXPECT().PDFURL(gomock.Any(), "tok", "pid").Return("https://storage.example/signed?sig=1", nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/assessments/tok/pdf/pid"))
		s.Equal(http.StatusFound, rr.Code)
		s.Equal("https://storage.example/signed?sig=1", rr.Header().Get("Location"))
	})

	s.Run("missing artifact", func() {
		s.service.EXPECT().PDFURL(gomock.Any(), "tok", "pid").Return("", dErrors.New(dErrors.CodeNotFound, "PDF not found"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/assessments/tok/pdf/pid"))
		s.Equal(http.StatusNotFound, rr.Code)
		s.Equal("PDF not found", testutil.UnmarshalErrorResponse(s.T(), rr)["error_description"])
	})
}

func (s *AssessmentHandlerSuite) TestPreview() {
	s.Run("incomplete", func() {
		s.service.EXPECT().Preview(gomock.Any(), gomock.Any()).Return(&service.PreviewResult{Scorable: false}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/preview", map[string]any{"culture": 7}))
		s.Equal(http.StatusOK, rr.Code)
		s.JSONEq(`{"scorable":false}`, rr.Body.String())
	})

	s.Run("complete", func() {
		record := guidance.Generate(7, 4, 3, scoring.GradeB)
		s.service.EXPECT().Preview(gomock.Any(), scoring.Inputs(7, 4, 3)).Return(&service.PreviewResult{
			Scorable: true,
			Score:    scoring.ScoreResult{FinalRating: 56, Grade: scoring.GradeB},
			Guidance: record,
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/preview",
			map[string]any{"culture": 7, "competence": 4, "commitment": 3}))
		s.Equal(http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[PreviewResponse](s.T(), rr)
		s.True(resp.Scorable)
		s.Equal(56, resp.FinalRating)
		s.Equal(scoring.GradeB, resp.Grade)
		s.Require().NotNil(resp.Guidance)
		s.Equal(record, *resp.Guidance)
	})

	s.Run("out of range", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/preview", map[string]any{"competence": 6}))
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Equal("competence must be between 1 and 5", testutil.UnmarshalErrorResponse(s.T(), rr)["error_description"])
	})
}

func (s *AssessmentHandlerSuite) TestLabels() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/labels"))
	s.Equal(http.StatusOK, rr.Code)

	var body map[string]map[string]string
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	s.Len(body["culture"], 10)
	s.Len(body["competence"], 5)
	s.Len(body["commitment"], 3)
	s.Equal(guidance.CultureLabel(10), body["culture"]["10"])
	s.Equal(guidance.GradeLabel(scoring.GradeAPlus), body["grades"]["A+"])
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"  Ada Lovelace ":              "Ada Lovelace",
		"<b>Grace</b> Hopper":          "Grace Hopper",
		"Tom & Jerry":                  "Tom & Jerry",
		`<img src=x onerror=alert(1)>`: "",
	}
	for in, want := range cases {
		if got := sanitizeName(in); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
