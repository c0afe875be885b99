// Package container builds the service graph from configuration.
package container

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fixithub/complaint-service/internal/api/http"
	"github.com/fixithub/complaint-service/internal/api/http/handlers"
	"github.com/fixithub/complaint-service/internal/auth"
	"github.com/fixithub/complaint-service/internal/config"
	"github.com/fixithub/complaint-service/internal/events"
	"github.com/fixithub/complaint-service/internal/observability"
	"github.com/fixithub/complaint-service/internal/persistence"
	"github.com/fixithub/complaint-service/internal/repository"
	"github.com/fixithub/complaint-service/internal/seed"
	"github.com/fixithub/complaint-service/internal/service"
	"github.com/fixithub/complaint-service/internal/storage"
	"github.com/fixithub/complaint-service/internal/worker"
)

// Deps are the externally owned resources the container wires in. Nil
// Postgres or Redis select in-memory stores; a nil Photos store is derived
// from config.
type Deps struct {
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Postgres *persistence.Postgres
	Redis    *persistence.Redis
	Photos   storage.PhotoStore
}

// Container holds the assembled services and the HTTP application.
type Container struct {
	App          *fiber.App
	Repositories repository.Repositories
	Dispatcher   events.Dispatcher
	Auth         *service.AuthService
	Residencies  *service.ResidencyService
	Complaints   *service.ComplaintService
	Dashboards   *service.DashboardService

	notifier *worker.NotificationWorker
}

// New builds every service and registers HTTP routes.
func New(ctx context.Context, cfg *config.Config, deps Deps) (*Container, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	repos := repository.NewMemoryRepositories()
	if deps.Postgres.Enabled() {
		repos = repository.NewPostgresRepositories(deps.Postgres.PoolHandle())
	}

	if !cfg.Seed.Disable {
		fixture, err := seed.Load(cfg.Seed.File)
		if err != nil {
			return nil, err
		}
		if err := seed.Apply(ctx, repos, fixture, cfg.Residency, logger); err != nil {
			return nil, err
		}
	}

	sessions, err := newSessionStore(cfg, deps.Redis)
	if err != nil {
		return nil, err
	}

	photos := deps.Photos
	if photos == nil {
		photos, err = newPhotoStore(ctx, cfg.Photos, logger)
		if err != nil {
			return nil, err
		}
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifier := worker.NewNotificationWorker(service.NewNotificationService(logger, deps.Metrics, cfg.Notification), logger, 0)
	notifier.Start(ctx, dispatcher)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	authService := service.NewAuthService(service.AuthDependencies{
		ResidencyRepo: repos.Residencies,
		UserRepo:      repos.Users,
		Tokens:        tokens,
		Sessions:      sessions,
		Dispatcher:    dispatcher,
		Metrics:       deps.Metrics,
		Limits:        cfg.Residency,
		Logger:        logger,
	})
	residencyService := service.NewResidencyService(repos.Residencies, repos.Users, cfg.Residency)
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: repos.Complaints,
		Photos:        photos,
		Dispatcher:    dispatcher,
		MaxPhotoBytes: cfg.Photos.MaxBytes,
		Logger:        logger,
	})
	dashboardService := service.NewDashboardService(repos.Complaints, residencyService)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    int(cfg.Photos.MaxBytes) + 1024*1024,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, deps.Metrics, cfg.App.RequestTimeout())

	checks := map[string]handlers.Pinger{}
	if deps.Postgres.Enabled() {
		checks["postgres"] = deps.Postgres
	}
	if cfg.Auth.SessionBackend == config.SessionBackendRedis {
		checks["redis"] = deps.Redis
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks),
		Auth:            handlers.NewAuthHandler(authService),
		Residency:       handlers.NewResidencyHandler(residencyService, cfg.Residency),
		Complaints:      handlers.NewComplaintsHandler(complaintService),
		AdminComplaints: handlers.NewAdminComplaintsHandler(complaintService),
		Dashboard:       handlers.NewDashboardHandler(dashboardService, complaintService),
		Photos:          handlers.NewPhotosHandler(complaintService),
		AuthMiddleware:  auth.NewAuthMiddleware(tokens, sessions, repos.Users),
		Metrics:         deps.Metrics,
	})

	return &Container{
		App:          app,
		Repositories: repos,
		Dispatcher:   dispatcher,
		Auth:         authService,
		Residencies:  residencyService,
		Complaints:   complaintService,
		Dashboards:   dashboardService,
		notifier:     notifier,
	}, nil
}

// Close stops background workers after delivering queued notifications.
func (c *Container) Close() {
	c.notifier.Stop()
}

func newSessionStore(cfg *config.Config, redis *persistence.Redis) (auth.SessionStore, error) {
	if cfg.Auth.SessionBackend != config.SessionBackendRedis {
		return auth.NewMemorySessionStore(), nil
	}
	if redis == nil || redis.Client == nil {
		return nil, fmt.Errorf("session backend %q needs a redis client", cfg.Auth.SessionBackend)
	}
	return auth.NewRedisSessionStore(redis.Client), nil
}

func newPhotoStore(ctx context.Context, cfg config.PhotoConfig, logger *zap.Logger) (storage.PhotoStore, error) {
	if cfg.Bucket == "" {
		logger.Info("S3_BUCKET not set; keeping photos in memory")
		return storage.NewMemoryPhotoStore(httptransport.PhotosPath), nil
	}
	store, err := storage.NewS3PhotoStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("photos stored in s3", zap.String("bucket", cfg.Bucket), zap.String("region", cfg.Region))
	return store, nil
}
