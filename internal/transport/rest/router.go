package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/feedback-collector/internal/analytics"
	"github.com/frahmantamala/feedback-collector/internal/auth"
	"github.com/frahmantamala/feedback-collector/internal/category"
	"github.com/frahmantamala/feedback-collector/internal/feedback"
	"github.com/frahmantamala/feedback-collector/internal/transport/middleware"
	"github.com/frahmantamala/feedback-collector/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups everything the router mounts. Metrics and RateLimiter are optional.
type Handlers struct {
	Feedback    *feedback.Handler
	Auth        *auth.Handler
	Analytics   *analytics.Handler
	Category    *category.Handler
	Metrics     http.Handler
	MetricsPath string
	RateLimiter *middleware.RateLimiter
}

type Options struct {
	DB             *sql.DB
	Driver         string
	AllowedOrigins []string
}

func RegisterAllRoutes(router *chi.Mux, opts Options, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(opts.DB, opts.Driver)

	throttle := func(next http.Handler) http.Handler { return next }
	if h.RateLimiter != nil {
		throttle = h.RateLimiter.Middleware
	}

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve the OpenAPI document at root (outside API prefix)
	router.Get("/openapi.yml", swagger.SpecHandler().ServeHTTP)
	router.Handle("/swagger/*", swagger.Handler())

	if h.Metrics != nil {
		path := h.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, h.Metrics)
	}

	// HTML pages
	router.Get("/", h.Feedback.Index)
	router.With(throttle).Post("/", h.Feedback.Submit)
	router.Get("/login", h.Auth.LoginPage)
	router.With(throttle).Post("/login", h.Auth.Login)
	router.Get("/logout", h.Auth.Logout)

	router.Group(func(pr chi.Router) {
		pr.Use(h.Auth.RequireSession)
		pr.Use(middleware.UserContext)
		pr.Get("/dashboard", h.Analytics.Dashboard)
	})

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", middleware.TraceHeader},
			ExposedHeaders:   []string{middleware.TraceHeader},
			AllowCredentials: len(opts.AllowedOrigins) > 0,
			MaxAge:           300,
		}))

		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)
		r.Get("/categories", h.Category.GetCategories)
		r.With(throttle).Post("/feedback", h.Feedback.CreateFeedback)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.RequireSession)
			pr.Use(middleware.UserContext)
			pr.Get("/stats", h.Analytics.GetStats)
			pr.Get("/feedback/{id}", h.Feedback.GetFeedback)
		})
	})
}
