// Package handler exposes the assessment service over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"threecs/internal/assessment/service"
	"threecs/internal/scoring"
	dErrors "threecs/pkg/domain-errors"
	"threecs/pkg/platform/httputil"
	"threecs/pkg/platform/privacy"
	"threecs/pkg/requestcontext"
)

// Service defines the assessment operations the handler needs.
type Service interface {
	Submit(ctx context.Context, cmd service.SubmitCommand) (*service.SubmitResult, error)
	GetByToken(ctx context.Context, token string) (*service.History, error)
	PDFURL(ctx context.Context, token, personID string) (string, error)
	Preview(ctx context.Context, in scoring.ScoreInputs) (*service.PreviewResult, error)
}

// Handler handles assessment endpoints.
type Handler struct {
	service  Service
	logger   *slog.Logger
	submitMW []func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithSubmitMiddleware wraps only the submission route, e.g. with the rate limiter.
func WithSubmitMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.submitMW = append(h.submitMW, mw...)
	}
}

// New creates a new assessment Handler.
func New(svc Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: svc, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the assessment routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.With(h.submitMW...).Post("/api/assessments", h.handleSubmit)
	r.Get("/api/assessments/{token}", h.handleGetAssessment)
	r.Get("/api/assessments/{token}/pdf/{personID}", h.handleDownloadPDF)
	r.Post("/api/preview", h.handlePreview)
	r.Get("/api/labels", h.handleLabels)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Submit(ctx, req.Command())
	if err != nil {
		h.logFailure(ctx, "assessment submission failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "assessment submitted",
		"request_id", requestID,
		"assessment_id", res.Assessment.ID,
		"assessor", privacy.MaskEmail(res.Assessment.AssessorEmail),
		"people", len(res.Results),
		"email_warning", res.Warning != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, toSubmitResponse(res))
}

func (h *Handler) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	history, err := h.service.GetByToken(ctx, chi.URLParam(r, "token"))
	if err != nil {
		h.logFailure(ctx, "assessment lookup failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toHistoryResponse(history))
}

func (h *Handler) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	url, err := h.service.PDFURL(ctx, chi.URLParam(r, "token"), chi.URLParam(r, "personID"))
	if err != nil {
		h.logFailure(ctx, "pdf link failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[PreviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.Preview(ctx, req.Inputs())
	if err != nil {
		h.logFailure(ctx, "preview failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPreviewResponse(res))
}

func (h *Handler) handleLabels(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, labelsResponse())
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeNotFound:
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"error", err,
		)
	default:
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestID,
			"error", err,
		)
	}
}
