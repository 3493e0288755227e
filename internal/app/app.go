package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/materialhub-backend/internal/clients/redis"
	"github.com/yungbote/materialhub-backend/internal/db"
	httpapi "github.com/yungbote/materialhub-backend/internal/http"
	"github.com/yungbote/materialhub-backend/internal/observability"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
	"github.com/yungbote/materialhub-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Repos    Repos
	Services Services
	Server   *httpapi.Server

	closers []func(context.Context) error
}

func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	a := &App{Log: log, Cfg: cfg}
	if err := a.init(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

func (a *App) init(ctx context.Context) error {
	log, cfg := a.Log, a.Cfg

	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Otel.Environment,
		Version:     cfg.Otel.Version,
		Endpoint:    cfg.Otel.Endpoint,
		Headers:     cfg.Otel.Headers,
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	})
	if shutdownOtel != nil {
		a.onClose(shutdownOtel)
	}

	dbs, err := db.NewService(log, db.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogQueries:      cfg.Database.LogQueries,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	a.DB = dbs
	a.onClose(func(context.Context) error { return dbs.Close() })
	if cfg.Database.AutoMigrate {
		if err := dbs.AutoMigrateAll(); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}
	}

	storage, closeStorage, err := resolveAssetStorage(ctx, log, cfg.Storage)
	if err != nil {
		return err
	}
	a.onClose(func(context.Context) error { return closeStorage() })

	var publisher services.Publisher
	if cfg.Redis.Addr != "" {
		bus, err := redis.NewEventBus(ctx, log, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return fmt.Errorf("init redis: %w", err)
		}
		publisher = bus
		a.onClose(func(context.Context) error { return bus.Close() })
	} else {
		log.Warn("REDIS_ADDR not set; cert notifications are only logged")
	}

	var metrics *observability.Metrics
	deps := serviceDeps{Storage: storage, Publisher: publisher}
	if cfg.Metrics.Enabled {
		metrics, err = observability.NewMetrics(cfg.Metrics.Namespace)
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		deps.Hooks = metrics
	}

	a.Repos = wireRepos(dbs.DB(), log)
	a.Services, err = wireServices(dbs.DB(), log, cfg, a.Repos, deps)
	if err != nil {
		return err
	}
	a.Server = httpapi.NewServer(wireRouter(log, cfg, a.Services, metrics, dbs))
	return nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "address", a.Cfg.Server.Address)
		errCh <- a.Server.Run(a.Cfg.Server.Address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	timeout := a.Cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	a.Log.Info("Shutting down HTTP server...")
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && a.Log != nil {
			a.Log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
	if a.Log != nil {
		a.Log.Sync()
	}
}
