package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"threecs/internal/artifact"
	"threecs/internal/assessment/metrics"
	"threecs/internal/assessment/models"
	"threecs/internal/guidance"
	"threecs/internal/notification"
	"threecs/internal/report"
	"threecs/internal/scoring"
	dErrors "threecs/pkg/domain-errors"
	"threecs/pkg/email"
	"threecs/pkg/platform/privacy"
	"threecs/pkg/platform/sentinel"
	"threecs/pkg/requestcontext"
)

const (
	tracerName = "threecs/assessment"

	// EmailFailedWarning is returned to the client when results were saved but
	// the email could not be delivered.
	EmailFailedWarning = "Assessment saved but email delivery failed. You can still view results via the history link."

	defaultConcurrency = 4
)

// Store persists assessments, people and PDF artifact records.
type Store interface {
	Create(ctx context.Context, a *models.Assessment, people []*models.Person) error
	FindByToken(ctx context.Context, token uuid.UUID) (*models.Assessment, error)
	ListPeople(ctx context.Context, assessmentID uuid.UUID) ([]models.PersonSummary, error)
	FindPerson(ctx context.Context, assessmentID, personID uuid.UUID) (*models.Person, error)
	SaveArtifact(ctx context.Context, artifact models.PDFArtifact) error
	FindArtifact(ctx context.Context, personID uuid.UUID) (*models.PDFArtifact, error)
	Ping(ctx context.Context) error
}

// ArtifactStorage keeps rendered PDFs and signs download links.
type ArtifactStorage interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) error
	SignedURL(ctx context.Context, name string, expiry time.Duration) (string, error)
}

// Renderer turns one person's results into a PDF.
type Renderer interface {
	Render(in report.Input) ([]byte, error)
}

// Notifier emails the assessor.
type Notifier interface {
	Notify(ctx context.Context, s notification.Summary, attachments []email.Attachment) error
}

// PersonInput is one person's raw scores as submitted.
type PersonInput struct {
	Name       string
	Culture    int
	Competence int
	Commitment int
}

// SubmitCommand is a full submission.
type SubmitCommand struct {
	AssessorEmail string
	People        []PersonInput
}

// PersonResult pairs a saved person with their guidance.
type PersonResult struct {
	Person   *models.Person
	Guidance guidance.Record
}

// SubmitResult is returned after a submission is saved.
type SubmitResult struct {
	Assessment *models.Assessment
	Results    []PersonResult
	Warning    string
}

// History is everything stored for one session token.
type History struct {
	Assessment *models.Assessment
	People     []models.PersonSummary
}

// PreviewResult is the live preview for possibly incomplete inputs.
type PreviewResult struct {
	Scorable bool
	Score    scoring.ScoreResult
	Guidance guidance.Record
}

// Service orchestrates scoring, persistence, reports and email.
type Service struct {
	store       Store
	storage     ArtifactStorage
	renderer    Renderer
	notifier    Notifier
	composer    guidance.Composer
	logger      *slog.Logger
	metrics     *metrics.Metrics
	concurrency int
	linkExpiry  time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithComposer replaces the pure guidance composer, e.g. with a cached one.
func WithComposer(c guidance.Composer) Option {
	return func(s *Service) {
		if c != nil {
			s.composer = c
		}
	}
}

// WithConcurrency bounds how many reports render at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLinkExpiry sets how long PDF download links stay valid.
func WithLinkExpiry(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.linkExpiry = d
		}
	}
}

func New(store Store, storage ArtifactStorage, renderer Renderer, notifier Notifier, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if storage == nil {
		return nil, errors.New("artifact storage is required")
	}
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}

	svc := &Service{
		store:       store,
		storage:     storage,
		renderer:    renderer,
		notifier:    notifier,
		composer:    guidance.Pure{},
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
		linkExpiry:  artifact.DefaultSignedURLExpiry,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Submit scores and saves every person, then renders reports and emails the
// assessor. Report and email failures never fail a saved submission.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*SubmitResult, error) {
	start := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "assessment.submit",
		trace.WithAttributes(attribute.Int("threecs.people", len(cmd.People))))
	defer span.End()

	if err := validateCommand(cmd); err != nil {
		markSpan(span, err)
		return nil, err
	}

	now := requestcontext.Now(ctx)
	assessment, err := models.NewAssessment(strings.TrimSpace(cmd.AssessorEmail), now)
	if err != nil {
		markSpan(span, err)
		return nil, err
	}

	people := make([]*models.Person, 0, len(cmd.People))
	for i, in := range cmd.People {
		p, err := models.NewPerson(assessment.ID, i, in.Name, in.Culture, in.Competence, in.Commitment, now)
		if err != nil {
			markSpan(span, err)
			return nil, err
		}
		people = append(people, p)
	}

	if err := s.store.Create(ctx, assessment, people); err != nil {
		s.logger.ErrorContext(ctx, "failed to save assessment",
			"assessment_id", assessment.ID,
			"error", err,
		)
		err = dErrors.Wrap(err, dErrors.CodeInternal, "Failed to save assessment")
		markSpan(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("threecs.assessment_id", assessment.ID.String()))
	s.metrics.IncrementSubmissions()

	results := make([]PersonResult, len(people))
	for i, p := range people {
		results[i] = PersonResult{
			Person:   p,
			Guidance: s.composer.Generate(p.Culture, p.Competence, p.Commitment, p.Grade),
		}
		s.metrics.IncrementPeopleAssessed(string(p.Grade), string(p.GuidanceKey))
	}

	attachments := s.generateReports(ctx, assessment, results)

	out := &SubmitResult{Assessment: assessment, Results: results}
	if err := s.notify(ctx, assessment, results, attachments); err != nil {
		s.logger.WarnContext(ctx, "assessment email failed",
			"assessment_id", assessment.ID,
			"recipient", privacy.MaskEmail(assessment.AssessorEmail),
			"error", err,
		)
		s.metrics.IncrementEmail(false)
		out.Warning = EmailFailedWarning
	} else {
		s.metrics.IncrementEmail(true)
	}

	s.metrics.ObserveSubmitLatency(time.Since(start))
	markSpan(span, nil)
	return out, nil
}

// generateReports renders, uploads and records each person's PDF concurrently.
// A person whose PDF failed to render gets no attachment; upload and record
// failures only cost the history download.
func (s *Service) generateReports(ctx context.Context, a *models.Assessment, results []PersonResult) []email.Attachment {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "assessment.reports")
	defer span.End()

	rendered := make([]*email.Attachment, len(results))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, r := range results {
		g.Go(func() error {
			data, err := s.renderOne(a, r)
			if err != nil {
				s.metrics.IncrementReportFailure("render")
				s.logger.WarnContext(ctx, "failed to render PDF",
					"assessment_id", a.ID,
					"person_id", r.Person.ID,
					"error", err,
				)
				return nil
			}
			rendered[i] = &email.Attachment{Filename: email.AttachmentFilename(r.Person.Name), Content: data}
			s.storeOne(ctx, a, r.Person, data)
			return nil
		})
	}
	_ = g.Wait()

	attachments := make([]email.Attachment, 0, len(rendered))
	for _, att := range rendered {
		if att != nil {
			attachments = append(attachments, *att)
		}
	}
	span.SetAttributes(attribute.Int("threecs.attachments", len(attachments)))
	return attachments
}

func (s *Service) renderOne(a *models.Assessment, r PersonResult) ([]byte, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRenderLatency(time.Since(start)) }()

	return s.renderer.Render(report.Input{
		PersonName:    r.Person.Name,
		Culture:       r.Person.Culture,
		Competence:    r.Person.Competence,
		Commitment:    r.Person.Commitment,
		FinalRating:   r.Person.FinalRating,
		Grade:         r.Person.Grade,
		Guidance:      r.Guidance,
		AssessorEmail: a.AssessorEmail,
		GeneratedAt:   a.CreatedAt,
	})
}

func (s *Service) storeOne(ctx context.Context, a *models.Assessment, p *models.Person, data []byte) {
	path := models.ArtifactPath(a.ID, p.ID)
	if err := s.storage.Upload(ctx, path, data, artifact.PDFContentType); err != nil {
		s.metrics.IncrementReportFailure("upload")
		s.logger.WarnContext(ctx, "failed to upload PDF",
			"assessment_id", a.ID,
			"person_id", p.ID,
			"error", err,
		)
		return
	}

	record := models.PDFArtifact{PersonID: p.ID, StoragePath: path, CreatedAt: requestcontext.Now(ctx)}
	if err := s.store.SaveArtifact(ctx, record); err != nil {
		s.metrics.IncrementReportFailure("record")
		s.logger.WarnContext(ctx, "failed to record PDF artifact",
			"assessment_id", a.ID,
			"person_id", p.ID,
			"error", err,
		)
	}
}

func (s *Service) notify(ctx context.Context, a *models.Assessment, results []PersonResult, attachments []email.Attachment) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "assessment.notify")
	defer span.End()

	summary := notification.Summary{
		AssessorEmail: a.AssessorEmail,
		SessionToken:  a.SessionToken.String(),
		GeneratedAt:   a.CreatedAt,
		People:        make([]notification.PersonResult, 0, len(results)),
	}
	for _, r := range results {
		summary.People = append(summary.People, notification.PersonResult{
			Name:        r.Person.Name,
			Culture:     r.Person.Culture,
			Competence:  r.Person.Competence,
			Commitment:  r.Person.Commitment,
			FinalRating: r.Person.FinalRating,
			Grade:       r.Person.Grade,
			Summary:     r.Guidance.Summary,
		})
	}
	err := s.notifier.Notify(ctx, summary, attachments)
	markSpan(span, err)
	return err
}

// GetByToken loads a submission and its people for the history page.
func (s *Service) GetByToken(ctx context.Context, token string) (*History, error) {
	a, err := s.findAssessment(ctx, token)
	if err != nil {
		return nil, err
	}
	people, err := s.store.ListPeople(ctx, a.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Failed to fetch assessment details")
	}
	return &History{Assessment: a, People: people}, nil
}

// PDFURL returns a short-lived download link for one person's report. The
// person must belong to the assessment identified by token.
func (s *Service) PDFURL(ctx context.Context, token, personID string) (string, error) {
	a, err := s.findAssessment(ctx, token)
	if err != nil {
		return "", err
	}

	pid, err := uuid.Parse(personID)
	if err != nil {
		return "", dErrors.New(dErrors.CodeNotFound, "Person not found")
	}
	if _, err := s.store.FindPerson(ctx, a.ID, pid); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "Person not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
	}

	art, err := s.store.FindArtifact(ctx, pid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "PDF not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load PDF record")
	}

	url, err := s.storage.SignedURL(ctx, art.StoragePath, s.linkExpiry)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create signed URL",
			"person_id", pid,
			"error", err,
		)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "Failed to generate download link")
	}
	return url, nil
}

// Preview scores possibly incomplete inputs. Incomplete input is not an
// error; out-of-range input is.
func (s *Service) Preview(_ context.Context, in scoring.ScoreInputs) (*PreviewResult, error) {
	if !in.InRange() {
		return nil, dErrors.New(dErrors.CodeValidation, "scores out of range")
	}
	score, ok := scoring.ComputeScore(in)
	if !ok {
		return &PreviewResult{Scorable: false}, nil
	}
	return &PreviewResult{
		Scorable: true,
		Score:    score,
		Guidance: s.composer.Generate(*in.Culture, *in.Competence, *in.Commitment, score.Grade),
	}, nil
}

// Ping checks the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) findAssessment(ctx context.Context, token string) (*models.Assessment, error) {
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "Assessment not found")
	}
	a, err := s.store.FindByToken(ctx, parsed)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Assessment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assessment")
	}
	return a, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateCommand(cmd SubmitCommand) error {
	if err := validate.Var(strings.TrimSpace(cmd.AssessorEmail), "required,email"); err != nil {
		return dErrors.New(dErrors.CodeValidation, "Valid email is required")
	}
	if len(cmd.People) == 0 {
		return dErrors.New(dErrors.CodeValidation, "At least one person is required")
	}
	if len(cmd.People) > models.MaxPeople {
		return dErrors.New(dErrors.CodeValidation, "Maximum 25 people per session")
	}
	for _, p := range cmd.People {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return dErrors.New(dErrors.CodeValidation, "Name is required")
		}
		if len([]rune(name)) > models.MaxNameLength {
			return dErrors.New(dErrors.CodeValidation, "Name must be at most 200 characters")
		}
		if !scoring.Inputs(p.Culture, p.Competence, p.Commitment).InRange() {
			return dErrors.New(dErrors.CodeValidation, "scores out of range")
		}
	}
	return nil
}

func markSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
