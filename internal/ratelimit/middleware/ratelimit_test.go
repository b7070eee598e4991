package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threecs/internal/platform/logger"
	"threecs/internal/ratelimit/models"
	"threecs/pkg/testutil"
)

type stubLimiter struct {
	result *models.RateLimitResult
	err    error
	gotIP  string
	calls  int
}

func (s *stubLimiter) CheckIP(_ context.Context, ip string, _ models.EndpointClass) (*models.RateLimitResult, error) {
	s.calls++
	s.gotIP = ip
	return s.result, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func TestRateLimitAllowed(t *testing.T) {
	reset := time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC)
	limiter := &stubLimiter{result: &models.RateLimitResult{Allowed: true, Limit: 5, Remaining: 4, ResetAt: reset}}
	mw := New(limiter, logger.Discard())

	req := testutil.WithClientIP(testutil.NewRequest(t, http.MethodPost, "/api/assessments"), "203.0.113.9")
	rr := testutil.DoRequest(mw.RateLimit(models.ClassSubmit)(okHandler()), req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "203.0.113.9", limiter.gotIP)
	assert.Equal(t, "5", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rr.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1772367300", rr.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimitDenied(t *testing.T) {
	limiter := &stubLimiter{result: &models.RateLimitResult{Allowed: false, Limit: 5, ResetAt: time.Now().Add(time.Minute), RetryAfter: 60}}
	mw := New(limiter, logger.Discard())

	req := testutil.WithClientIP(testutil.NewRequest(t, http.MethodPost, "/api/assessments"), "203.0.113.9")
	rr := testutil.DoRequest(mw.RateLimit(models.ClassSubmit)(okHandler()), req)

	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
	body := testutil.UnmarshalResponse[models.RateLimitExceededResponse](t, rr)
	assert.Equal(t, "rate_limit_exceeded", body.Error)
	assert.Equal(t, 60, body.RetryAfter)
	assert.NotEmpty(t, body.Message)
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("boom")}
	mw := New(limiter, logger.Discard())

	rr := testutil.DoRequest(mw.RateLimit(models.ClassSubmit)(okHandler()), testutil.NewRequest(t, http.MethodPost, "/api/assessments"))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimitFallsBackToRemoteAddr(t *testing.T) {
	limiter := &stubLimiter{result: &models.RateLimitResult{Allowed: true, Limit: 5, Remaining: 4}}
	mw := New(limiter, logger.Discard())

	req := testutil.NewRequest(t, http.MethodPost, "/api/assessments")
	req.RemoteAddr = "192.0.2.1:4321"
	testutil.DoRequest(mw.RateLimit(models.ClassSubmit)(okHandler()), req)
	assert.Equal(t, "192.0.2.1", limiter.gotIP)
}

func TestRateLimitDisabled(t *testing.T) {
	limiter := &stubLimiter{}
	mw := New(limiter, logger.Discard(), WithDisabled(true))

	rr := testutil.DoRequest(mw.RateLimit(models.ClassSubmit)(okHandler()), testutil.NewRequest(t, http.MethodPost, "/api/assessments"))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Zero(t, limiter.calls)
}
