package requestlimit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"threecs/internal/ratelimit/metrics"
	"threecs/internal/ratelimit/models"
	dErrors "threecs/pkg/domain-errors"
	"threecs/pkg/platform/privacy"
)

const (
	DefaultRequests = 5
	DefaultWindow   = 15 * time.Minute
)

// BucketStore counts requests per key.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Service struct {
	buckets  BucketStore
	requests int
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
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

// WithLimit overrides the per-IP budget. Non-positive values keep the default.
func WithLimit(requests int, window time.Duration) Option {
	return func(s *Service) {
		if requests > 0 {
			s.requests = requests
		}
		if window > 0 {
			s.window = window
		}
	}
}

func New(buckets BucketStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}

	svc := &Service{
		buckets:  buckets,
		requests: DefaultRequests,
		window:   DefaultWindow,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckIP counts one request from ip against class.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	key := models.NewRateLimitKey(models.KeyPrefixIP, ip, class)
	result, err := s.buckets.Allow(ctx, key.String(), s.requests, s.window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	s.metrics.RecordCheck(string(class), result.Allowed)
	if !result.Allowed {
		s.logger.WarnContext(ctx, "ip_rate_limit_exceeded",
			"identifier", privacy.AnonymizeIP(ip),
			"endpoint_class", class,
			"limit", s.requests,
			"window_seconds", int(s.window.Seconds()),
			"retry_after", result.RetryAfter,
		)
	}
	return result, nil
}

// Limit returns the configured budget.
func (s *Service) Limit() (int, time.Duration) {
	return s.requests, s.window
}
