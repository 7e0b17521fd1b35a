package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/workbook-backend/internal/data/db"
	httpserver "github.com/yungbote/workbook-backend/internal/http"
	"github.com/yungbote/workbook-backend/internal/observability"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
	"github.com/yungbote/workbook-backend/internal/session"
)

type App struct {
	Log        *logger.Logger
	DB         *gorm.DB
	Cfg        Config
	Repos      Repos
	Aggregates Aggregates
	Services   Services
	Metrics    *observability.Metrics
	Server     *httpserver.Server

	memorySessions *session.MemoryStore
	redis          *goredis.Client
	otelShutdown   func(context.Context) error
}

// New opens the record store and wires every layer. It does not migrate.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.loggerConfig())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	theDB, err := db.Open(cfg.dbConfig(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}

	a := &App{Log: log, DB: theDB, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.otelConfig())
	if cfg.Metrics.Enabled {
		a.Metrics = observability.New()
		if err := a.Metrics.RegisterDB(theDB, cfg.DB.Name); err != nil {
			log.Warn("metrics: db stats collector not registered", "error", err)
		}
	}

	a.Repos = wireRepos(theDB, log)
	a.Aggregates = wireAggregates(theDB, log, a.Repos, a.Metrics)

	store, err := a.wireSessionStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Services, err = wireServices(log, cfg, a.Repos, store, a.Metrics)
	if err != nil {
		a.Close()
		return nil, err
	}

	handlers, err := wireHandlers(log, theDB, a.Aggregates, a.Services)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Server = httpserver.NewServer(wireRouterConfig(log, cfg, a.Metrics, handlers, wireMiddleware(log, a.Services)))
	return a, nil
}

func (a *App) wireSessionStore(ctx context.Context) (session.Store, error) {
	cfg := a.Cfg.Session
	if cfg.Store == SessionStoreRedis {
		rcfg := session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		}
		rdb, err := session.NewRedisClient(ctx, rcfg)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.redis = rdb
		a.Log.Info("Session store ready", "store", SessionStoreRedis, "addr", cfg.RedisAddr)
		return session.NewRedisStore(rdb, rcfg), nil
	}
	a.memorySessions = session.NewMemoryStore(cfg.TTL)
	a.Log.Info("Session store ready", "store", SessionStoreMemory)
	return a.memorySessions, nil
}

// Migrate creates or updates the schema.
func (a *App) Migrate() error {
	if a == nil || a.DB == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Migrating record store...")
	return db.AutoMigrateAll(a.DB)
}

// Run serves HTTP and the background loops until ctx is done or one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Server.Run(gctx, a.Cfg.HTTPAddr) })
	if a.Metrics != nil {
		g.Go(func() error { return a.Metrics.Serve(gctx, a.Log, a.Cfg.Metrics.Addr) })
		a.Metrics.StartRedisCollector(gctx, a.Log, a.redis, 0)
	}
	if a.memorySessions != nil {
		g.Go(func() error {
			a.memorySessions.RunSweeper(gctx, a.Cfg.Session.SweepInterval)
			return nil
		})
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
