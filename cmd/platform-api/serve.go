package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/profitum/platform-api/internal/api"
	"github.com/profitum/platform-api/internal/api/handler"
	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
	"github.com/profitum/platform-api/internal/core/service"
	"github.com/profitum/platform-api/internal/infrastructure/db"
	"github.com/profitum/platform-api/internal/infrastructure/db/memory"
	"github.com/profitum/platform-api/internal/infrastructure/db/redis"
	"github.com/profitum/platform-api/internal/infrastructure/queue"
	"github.com/profitum/platform-api/internal/pkg/config"
	"github.com/profitum/platform-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "platform-api",
	})
	log.Info().Str("env", cfg.Env).Str("store", cfg.Store.Driver).Str("version", version).Msg("starting")

	store, err := db.Open(ctx, db.Config{
		Driver:        cfg.Store.Driver,
		PostgresDSN:   cfg.Store.DatabaseURL,
		AutoMigrate:   cfg.Store.AutoMigrate,
		MongoURI:      cfg.Store.Mongo.URI,
		MongoDatabase: cfg.Store.Mongo.Database,
	}, logger.Component("store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	var (
		rdb     *goredis.Client
		revoked ports.RevocationList
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password.Reveal(),
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		revoked = redis.NewRevocationList(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, token revocations are kept in process memory")
		revoked = memory.NewRevocationList()
	}

	tokens := service.NewTokenService(cfg.Auth.JWTSecret.Bytes(), cfg.Auth.TokenTTL())
	auth := service.NewAuthService(store, tokens, revoked, cfg.Auth.BcryptCost, logger.Component("auth"))

	var access ports.AccessLogger
	if cfg.AccessLog.Enabled {
		dispatcher := queue.NewDispatcher(cfg.AccessLog.Workers, service.NewAccessLogService(store), logger.Component("access_log"))
		// Workers outlive the signal so requests still in flight during
		// e.Shutdown can log. They stop once serve returns.
		workerCtx, stopWorkers := context.WithCancel(context.Background())
		dispatcher.Start(workerCtx)
		defer func() {
			stopWorkers()
			dispatcher.Wait()
		}()
		access = dispatcher
	}

	resourceLog := logger.Component("resources")
	e := api.NewRouter(api.Options{
		APIPrefix:          cfg.APIPrefix,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Debug:              cfg.Debug,
		Logger:             logger.Component("http"),
		Store:              store,
		Redis:              rdb,
		Tokens:             tokens,
		Auth:               auth,
		Preferences:        service.NewPreferenceService(store, logger.Component("preferences")),
		Resources: []api.Resource{
			{Path: "/audits", Service: service.NewResourceService(domain.KindAudit, store, resourceLog), Schema: handler.AuditSchema},
			{Path: "/simulations", Service: service.NewResourceService(domain.KindSimulation, store, resourceLog), Schema: handler.SimulationSchema},
			{Path: "/eligibility", Service: service.NewResourceService(domain.KindEligibility, store, resourceLog), Schema: handler.EligibilitySchema},
		},
		Revoked: revoked,
		Access:  access,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
