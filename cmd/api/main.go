package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/baharkarakas/lottery-miniapp-api/internal/api"
	"github.com/baharkarakas/lottery-miniapp-api/internal/auth"
	"github.com/baharkarakas/lottery-miniapp-api/internal/config"
	"github.com/baharkarakas/lottery-miniapp-api/internal/db"
	"github.com/baharkarakas/lottery-miniapp-api/internal/edge"
	"github.com/baharkarakas/lottery-miniapp-api/internal/events"
	"github.com/baharkarakas/lottery-miniapp-api/internal/logger"
	"github.com/baharkarakas/lottery-miniapp-api/internal/metrics"
	"github.com/baharkarakas/lottery-miniapp-api/internal/middleware"
	"github.com/baharkarakas/lottery-miniapp-api/internal/repository"
	"github.com/baharkarakas/lottery-miniapp-api/internal/repository/postgres"
	"github.com/baharkarakas/lottery-miniapp-api/internal/repository/supabase"
	"github.com/baharkarakas/lottery-miniapp-api/internal/services"
	"github.com/baharkarakas/lottery-miniapp-api/internal/telemetry"
	"github.com/baharkarakas/lottery-miniapp-api/internal/worker"
)

const serviceName = "lottery-miniapp-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.Version, cfg.OTelEndpoint)
	if err != nil {
		log.Error("tracing", "err", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	var (
		accounts repository.Accounts
		audit    repository.AuditLogs
	)
	switch cfg.StoreBackend {
	case config.BackendSupabase:
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.StoreKey())
		if err != nil {
			log.Error("supabase client", "err", err)
			os.Exit(1)
		}
		repos := supabase.NewRepositories(client)
		accounts, audit = repos.Accounts, repos.AuditLogs
	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db connect", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if cfg.Migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				log.Error("migrations", "err", err)
				os.Exit(1)
			}
		}
		repos := postgres.NewRepositories(pool)
		accounts, audit = repos.Accounts, repos.AuditLogs
	}

	var limiter middleware.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unavailable, limiter fails open until it recovers", "err", err)
		}
		cancel()
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateRPS)
	} else if cfg.RateRPS > 0 {
		mem := middleware.NewMemoryLimiter(cfg.RateRPS)
		go sweepLimiter(ctx, mem)
		limiter = mem
	}

	var pub events.Publisher = events.NewNoopPublisher()
	if cfg.NATSURL != "" {
		np, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.Error("nats connect", "err", err)
			os.Exit(1)
		}
		pub = np
	}
	defer pub.Close()

	wp := worker.NewPool(cfg.WorkerCount)
	// runs before pub.Close so queued events still go out
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	opts := []services.AccountOption{services.WithTokens(tm)}
	if cfg.TelegramBotToken != "" {
		opts = append(opts, services.WithInitData(
			auth.NewInitDataVerifier(cfg.TelegramBotToken, cfg.TelegramInitDataMaxAge),
			cfg.TelegramRequireInitData,
		))
	}
	accountSvc := services.NewAccountService(accounts, audit, pub, wp, opts...)

	fnKey := cfg.SupabaseAnonKey
	if fnKey == "" {
		fnKey = cfg.StoreKey()
	}
	catalogSvc := services.NewCatalogService(edge.NewClient(cfg.SupabaseURL, fnKey, cfg.FunctionTimeout), cfg.ClientInfo)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:      cfg,
		Accounts: accountSvc,
		Catalog:  catalogSvc,
		Store:    accountSvc,
		Auth:     middleware.NewAuthMiddleware(tm, cfg.Env),
		Limiter:  limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "backend", cfg.StoreBackend, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

func sweepLimiter(ctx context.Context, l *middleware.MemoryLimiter) {
	t := time.NewTicker(5 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep(10 * time.Minute)
		}
	}
}
