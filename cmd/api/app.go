package main

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-mindful-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/config"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/services"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/timers"
)

// app is the wired object graph shared by the server and the one-shot
// commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    domain.BlobStore
	redis    *redis.Client
	service  *services.WellnessService
	sessions *services.SessionManager
	loc      *time.Location
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, clock timers.Clock) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = cache.NewRedisClient(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
			rdb = nil
		}
	}

	store, err := repository.Open(ctx, repository.Options{
		Backend:        cfg.Storage.Backend,
		DataDir:        cfg.Storage.DataDir,
		SQLitePath:     cfg.Storage.SQLitePath,
		DatabaseURL:    cfg.Storage.DatabaseURL,
		PostgresDriver: cfg.Storage.PostgresDriver,
		Redis:          rdb,
		CacheTTL:       cfg.Redis.CacheTTL,
		Logger:         logger,
	})
	if err != nil {
		if rdb != nil {
			rdb.Close()
		}
		return nil, err
	}

	analytics := services.NewAnalyticsService(loc)
	svc := services.NewWellnessService(
		services.NewDataStore(store, logger),
		analytics,
		services.NewNotificationFeed(0),
		clock,
		logger,
	)
	if err := svc.Init(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		redis:    rdb,
		service:  svc,
		sessions: services.NewSessionManager(svc, clock, cfg.Workers.TickInterval, logger),
		loc:      loc,
	}, nil
}

func (a *app) routerDeps(startTime time.Time) adapterHTTP.RouterDependencies {
	return adapterHTTP.RouterDependencies{
		EntryHandler:     adapterHTTP.NewEntryHandler(a.service, a.logger),
		SessionHandler:   adapterHTTP.NewSessionHandler(a.sessions, a.service, a.logger),
		StatsHandler:     adapterHTTP.NewStatsHandler(a.service, a.logger),
		ProfileHandler:   adapterHTTP.NewProfileHandler(a.service, a.logger),
		CommunityHandler: adapterHTTP.NewCommunityHandler(a.service, a.logger),
		Store:            a.store,
		Redis:            a.redis,
		RateLimit:        a.cfg.RateLimit,
		Logger:           a.logger,
		StartTime:        startTime,
	}
}

// close saves the record one last time and releases the backends.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if err := a.service.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
