// Package app assembles the HTTP application from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"cloud.google.com/go/storage"

	"threecs/internal/artifact"
	assessmenthandler "threecs/internal/assessment/handler"
	assessmentmetrics "threecs/internal/assessment/metrics"
	"threecs/internal/assessment/service"
	"threecs/internal/assessment/store"
	"threecs/internal/guidance"
	"threecs/internal/health"
	"threecs/internal/notification"
	"threecs/internal/platform/config"
	"threecs/internal/platform/database"
	"threecs/internal/platform/metrics"
	"threecs/internal/platform/redis"
	ratelimitmetrics "threecs/internal/ratelimit/metrics"
	ratelimitmw "threecs/internal/ratelimit/middleware"
	"threecs/internal/ratelimit/models"
	"threecs/internal/ratelimit/service/requestlimit"
	"threecs/internal/ratelimit/store/bucket"
	"threecs/internal/report"
	httptransport "threecs/internal/transport/http"
	"threecs/pkg/email"
	"threecs/pkg/platform/circuit"
)

type metricSet struct {
	platform   *metrics.Metrics
	assessment *assessmentmetrics.Metrics
	rateLimit  *ratelimitmetrics.Metrics
}

// Collectors register with the default registry, which accepts each name once.
var registerMetrics = sync.OnceValue(func() metricSet {
	return metricSet{
		platform:   metrics.New(),
		assessment: assessmentmetrics.New(),
		rateLimit:  ratelimitmetrics.New(),
	}
})

// App is the assembled server: its handler and the resources to release.
type App struct {
	Handler http.Handler
	Service *service.Service

	closers []func() error
}

// Close releases every resource Build opened, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build wires stores, limiter, artifact storage, email and handlers from cfg.
// Background workers stop when ctx is cancelled.
func Build(ctx context.Context, cfg config.Server, logger *slog.Logger) (*App, error) {
	a := &App{}
	m := registerMetrics()
	fail := func(err error) (*App, error) {
		_ = a.Close()
		return nil, err
	}

	st, err := a.openStore(ctx, cfg.Database, logger)
	if err != nil {
		return fail(err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fail(err)
	}
	if redisClient != nil {
		a.closers = append(a.closers, redisClient.Close)
	}

	storageBackend, files, err := a.openArtifacts(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}

	renderer, err := newRenderer(cfg.Report, logger)
	if err != nil {
		return fail(err)
	}

	sender := email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From,
		email.WithBreaker(circuit.New("resend")),
		email.WithSenderLogger(logger))
	if _, disabled := sender.(email.DisabledSender); disabled {
		logger.Warn("RESEND_API_KEY not set; results emails will not be sent")
	}
	notifier, err := notification.New(sender, cfg.AppURL, notification.WithLogger(logger))
	if err != nil {
		return fail(err)
	}

	composer, err := guidance.NewCachedComposer(cfg.GuidanceCacheSize, guidance.WithCacheObserver(m.assessment))
	if err != nil {
		return fail(err)
	}

	svc, err := service.New(st, storageBackend, renderer, notifier,
		service.WithLogger(logger),
		service.WithMetrics(m.assessment),
		service.WithComposer(composer),
		service.WithConcurrency(cfg.Report.Concurrency),
		service.WithLinkExpiry(cfg.Storage.SignedURLExpiry),
	)
	if err != nil {
		return fail(err)
	}
	a.Service = svc

	limiter, err := a.newRateLimiter(ctx, cfg.RateLimit, redisClient, m.rateLimit, logger)
	if err != nil {
		return fail(err)
	}

	healthOpts := []health.Option{
		health.WithSecret(cfg.CronSecret),
		health.WithCheck("database", st.Ping),
	}
	if redisClient != nil {
		healthOpts = append(healthOpts, health.WithCheck("redis", redisClient.Health))
	}

	a.Handler = httptransport.NewRouter(httptransport.Config{
		Logger:  logger,
		Metrics: m.platform,
		Files:   files,
		Routes: []httptransport.Routes{
			assessmenthandler.New(svc, logger,
				assessmenthandler.WithSubmitMiddleware(limiter.RateLimit(models.ClassSubmit))),
			health.New(logger, m.platform, healthOpts...),
		},
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (service.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory assessment store; data is lost on restart")
		return store.NewInMemory(), nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		logger.Info("assessment store ready", "driver", cfg.Driver)
		if cfg.Driver == config.DriverPostgres {
			return store.NewPostgres(db), nil
		}
		return store.NewSQLite(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// openArtifacts returns GCS when a bucket is configured; otherwise PDFs are
// kept in memory and served by this process under FilesPrefix.
func (a *App) openArtifacts(ctx context.Context, cfg config.Server, logger *slog.Logger) (service.ArtifactStorage, http.Handler, error) {
	if cfg.Storage.GCSBucket == "" {
		logger.Warn("GCS_BUCKET not set; storing PDFs in memory")
		mem := artifact.NewMemory(cfg.AppURL + httptransport.FilesPrefix)
		return mem, mem, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("create storage client: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	gcs, err := artifact.NewGCS(client, cfg.Storage.GCSBucket)
	if err != nil {
		return nil, nil, err
	}
	return gcs, nil, nil
}

func newRenderer(cfg config.ReportConfig, logger *slog.Logger) (*report.Renderer, error) {
	if cfg.LogoPath == "" {
		return report.New(), nil
	}
	data, imageType, err := report.LoadLogo(cfg.LogoPath)
	if err != nil {
		return nil, err
	}
	logger.Info("report logo loaded", "path", cfg.LogoPath)
	return report.New(report.WithLogo(data, imageType)), nil
}

func (a *App) newRateLimiter(ctx context.Context, cfg config.RateLimitConfig, client *redis.Client, limitMetrics *ratelimitmetrics.Metrics, logger *slog.Logger) (*ratelimitmw.Middleware, error) {
	var buckets requestlimit.BucketStore
	if client != nil {
		buckets = bucket.NewRedisBucketStore(client.Client)
	} else {
		mem := bucket.NewInMemoryBucketStore()
		mem.StartCleanup(ctx, cfg.CleanupInterval)
		buckets = mem
	}

	svc, err := requestlimit.New(buckets,
		requestlimit.WithLogger(logger),
		requestlimit.WithMetrics(limitMetrics),
		requestlimit.WithLimit(cfg.Requests, cfg.Window),
	)
	if err != nil {
		return nil, err
	}
	return ratelimitmw.New(svc, logger,
		ratelimitmw.WithDisabled(cfg.Disabled),
		ratelimitmw.WithMetrics(limitMetrics),
	), nil
}
