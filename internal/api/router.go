package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/lottery-miniapp-api/internal/api/handlers"
	"github.com/baharkarakas/lottery-miniapp-api/internal/config"
	"github.com/baharkarakas/lottery-miniapp-api/internal/metrics"
	"github.com/baharkarakas/lottery-miniapp-api/internal/middleware"
)

type RouterDeps struct {
	Cfg      config.Config
	Accounts handlers.AccountService
	Catalog  handlers.CatalogService
	Store    handlers.Pinger
	Auth     *middleware.AuthMiddleware
	Limiter  middleware.Limiter
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	if d.Cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	health := handlers.NewHealthHandler(d.Cfg.HTTPPort, d.Cfg.Version, d.Store)
	authH := handlers.NewAuthHandler(d.Accounts)
	catalog := handlers.NewCatalogHandler(d.Catalog)
	profile := handlers.NewProfileHandler(d.Accounts)

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// health checks stay outside the rate limit
		r.Get("/health", health.Health)
		r.Get("/ready", health.Ready)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(d.Limiter))

			r.Post("/auth", authH.Login)
			r.Post("/auth/refresh", authH.Refresh)

			r.Get("/get-products", catalog.Products)
			r.Get("/navigation", handlers.Navigation)

			r.With(d.Auth.Auth).Get("/me", profile.Me)
		})
	})

	return r
}
