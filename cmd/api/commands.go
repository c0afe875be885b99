package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fixithub/complaint-service/internal/config"
	"github.com/fixithub/complaint-service/internal/container"
	"github.com/fixithub/complaint-service/internal/observability"
	"github.com/fixithub/complaint-service/internal/persistence"
	"github.com/fixithub/complaint-service/internal/repository"
	"github.com/fixithub/complaint-service/internal/seed"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fixithub",
		Short:         "Residential complaint tracking service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  runServe,
	}
}

func newMigrateCmd() *cobra.Command {
	var withSeed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), withSeed)
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "load the seed fixture into an empty database")
	return cmd
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			return err
		}
	}

	var redis *persistence.Redis
	if cfg.Auth.SessionBackend == config.SessionBackendRedis {
		redis = persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
	}

	c, err := container.New(ctx, cfg, container.Deps{
		Logger:   logger,
		Metrics:  observability.NewMetrics(),
		Postgres: pg,
		Redis:    redis,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		errCh <- c.App.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return c.App.ShutdownWithTimeout(10 * time.Second)
}

func runMigrate(ctx context.Context, withSeed bool) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN is required for migrate")
	}
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		return err
	}
	if !withSeed {
		return nil
	}
	fixture, err := seed.Load(cfg.Seed.File)
	if err != nil {
		return err
	}
	return seed.Apply(ctx, repository.NewPostgresRepositories(pg.PoolHandle()), fixture, cfg.Residency, logger)
}
