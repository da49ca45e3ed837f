package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/sessionauth/api/handler"
	"github.com/fastygo/sessionauth/internal/config"
	"github.com/fastygo/sessionauth/internal/credentials"
	"github.com/fastygo/sessionauth/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/sessionauth/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/sessionauth/internal/infrastructure/redis"
	"github.com/fastygo/sessionauth/internal/middleware"
	"github.com/fastygo/sessionauth/internal/router"
	"github.com/fastygo/sessionauth/internal/services"
	"github.com/fastygo/sessionauth/internal/services/lifecycle"
	"github.com/fastygo/sessionauth/pkg/httpcontext"
	"github.com/fastygo/sessionauth/pkg/logger"
	"github.com/fastygo/sessionauth/repository"
	boltRepo "github.com/fastygo/sessionauth/repository/bolt"
	"github.com/fastygo/sessionauth/repository/memory"
	pgRepo "github.com/fastygo/sessionauth/repository/postgres"
	redisRepo "github.com/fastygo/sessionauth/repository/redis"
	authUC "github.com/fastygo/sessionauth/usecase/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		File:     cfg.Logger.File,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.Listen(context.Background())
	defer stop()

	sessions, checks, err := openStore(appCtx, cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("session store unavailable", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}

	if sweepable, ok := sessions.(repository.SessionSweeper); ok && cfg.Store.SweepInterval > 0 {
		sweeper := services.NewSweeper(sweepable, zapLogger, services.SweeperConfig{
			Interval: cfg.Store.SweepInterval,
			Timeout:  cfg.Context.RequestTimeout,
		})
		sweeper.Start()
		manager.Register("sweeper", func(ctx context.Context) error {
			sweeper.Stop(ctx)
			return nil
		})
	}

	mon := monitor.New(checks, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		zapLogger.Fatal("invalid operator credential", zap.Error(err))
	}

	authUseCase := authUC.New(verifier, sessions, cfg.Auth.SessionTimeout, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	dispatcher := apiHandler.NewDispatcher(ctxAdapter, zapLogger)
	apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger).Register(dispatcher)

	handlers := router.Handlers{
		Auth:    dispatcher,
		Session: apiHandler.NewSessionHandler(ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	requireSession := middleware.RequireSession(authUseCase, ctxAdapter, zapLogger)
	r := router.New(handlers, requireSession)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Backend),
			zap.Duration("session_timeout", authUseCase.Timeout()),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()
	zapLogger.Info("shutdown signal received")

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func newVerifier(cfg config.AuthConfig) (credentials.Verifier, error) {
	if cfg.PasswordHash != "" {
		return credentials.NewStaticHashed(cfg.Username, cfg.PasswordHash)
	}
	return credentials.NewStatic(cfg.Username, cfg.Password), nil
}

// openStore connects the configured session backend, registers its shutdown
// hook and returns the health checks that cover it.
func openStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) (repository.SessionRepository, map[string]monitor.Check, error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis, zapLogger)
		if err != nil {
			return nil, nil, err
		}
		manager.Register("redis", func(context.Context) error {
			return client.Close()
		})
		checks := map[string]monitor.Check{
			"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
		}
		return redisRepo.NewSessionRepository(client, cfg.Store.Retention), checks, nil

	case config.StorePostgres:
		if err := pgInfra.RunMigrations(cfg.Database, cfg.Migrations, zapLogger); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			return nil, nil, err
		}
		manager.Register("postgres", func(context.Context) error {
			pool.Close()
			return nil
		})
		checks := map[string]monitor.Check{
			"postgresql": pool.Ping,
		}
		return pgRepo.NewSessionRepository(pool), checks, nil

	case config.StoreBolt:
		store, err := boltRepo.Open(cfg.Bolt.Path, "sessions")
		if err != nil {
			return nil, nil, err
		}
		manager.Register("bolt", func(context.Context) error {
			return store.Close()
		})
		checks := map[string]monitor.Check{
			"bolt": func(context.Context) error {
				_, err := store.Size()
				return err
			},
		}
		return store, checks, nil

	case config.StoreMemory:
		zapLogger.Warn("in-memory session store: sessions are not shared between processes and are lost on restart")
		return memory.NewSessionRepository(), map[string]monitor.Check{}, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Store.Backend)
	}
}
