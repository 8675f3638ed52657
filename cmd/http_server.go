package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/feedback-collector/internal"
	"github.com/frahmantamala/feedback-collector/internal/analytics"
	"github.com/frahmantamala/feedback-collector/internal/auth"
	"github.com/frahmantamala/feedback-collector/internal/category"
	"github.com/frahmantamala/feedback-collector/internal/database"
	"github.com/frahmantamala/feedback-collector/internal/department"
	"github.com/frahmantamala/feedback-collector/internal/feedback"
	"github.com/frahmantamala/feedback-collector/internal/feedback/repository"
	"github.com/frahmantamala/feedback-collector/internal/metrics"
	"github.com/frahmantamala/feedback-collector/internal/notification"
	"github.com/frahmantamala/feedback-collector/internal/transport"
	"github.com/frahmantamala/feedback-collector/internal/transport/middleware"
	"github.com/frahmantamala/feedback-collector/internal/transport/rest"
	"github.com/frahmantamala/feedback-collector/internal/transport/swagger"
	"github.com/frahmantamala/feedback-collector/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving the feedback form, the dashboard and the JSON API`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	ctx := context.Background()
	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.SQLDB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(logger.Options{
		Level:  config.Observability.Logging.Level,
		Format: config.Observability.Logging.Format,
	})

	if _, err := swagger.Load(ctx); err != nil {
		return nil, err
	}

	db, err := database.Open(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	deps := &Dependencies{Config: config, DB: db, SQLDB: sqlDB, Logger: lg}

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, sqlDB, config.Database.Driver); err != nil {
			deps.close()
			return nil, err
		}
	}

	handlers, err := buildHandlers(ctx, deps)
	if err != nil {
		deps.close()
		return nil, err
	}

	deps.Router = chi.NewRouter()
	rest.RegisterAllRoutes(deps.Router, rest.Options{
		DB:             sqlDB,
		Driver:         config.Database.Driver,
		AllowedOrigins: config.Server.Origins(),
	}, handlers, lg)

	return deps, nil
}

func buildHandlers(ctx context.Context, deps *Dependencies) (rest.Handlers, error) {
	cfg := deps.Config
	lg := deps.Logger

	views, err := transport.NewViews()
	if err != nil {
		return rest.Handlers{}, err
	}
	base := transport.NewBaseHandler(lg, views)

	var (
		recorder       metrics.Recorder = metrics.Nop{}
		metricsHandler http.Handler
	)
	if cfg.Observability.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewCollector(reg)
		metricsHandler = metrics.Handler(reg)
	}

	classifier := category.NewClassifier(category.Keywords{
		Negative:   cfg.Classifier.Negative,
		Positive:   cfg.Classifier.Positive,
		Suggestion: cfg.Classifier.Suggestion,
	})

	mailTransport, err := notification.NewTransport(ctx, cfg.Mail)
	if err != nil {
		return rest.Handlers{}, fmt.Errorf("failed to initialize mail transport: %w", err)
	}
	if err := mailTransport.Ready(); err != nil {
		lg.Warn("mail transport is not configured; submissions will be stored without notification", "reason", err)
	}
	renderer, err := notification.NewRenderer(cfg.Mail.SubjectTemplate, cfg.Mail.BodyTemplate)
	if err != nil {
		return rest.Handlers{}, err
	}

	feedbackService := feedback.NewService(
		repository.NewFeedbackRepository(deps.DB),
		classifier,
		notification.NewNotifier(mailTransport, renderer, lg),
		department.NewDirectory(cfg.Departments),
		recorder,
		lg,
	)

	verifier, err := auth.NewVerifier(cfg.Security, lg)
	if err != nil {
		return rest.Handlers{}, err
	}
	store, err := sessionStore(ctx, deps)
	if err != nil {
		return rest.Handlers{}, err
	}
	gate := auth.NewGate(verifier, store, cfg.Session.TTL, recorder, lg)

	aggregator := analytics.NewAggregator(
		analytics.NewRepository(sqlx.NewDb(deps.SQLDB, database.SQLDriverName(cfg.Database.Driver))),
		lg,
	)

	handlers := rest.Handlers{
		Feedback:    feedback.NewHandler(base, feedbackService),
		Auth:        auth.NewHandler(base, gate, auth.NewTokenCodec(cfg.Security.SessionSecret), cfg.Session.CookieSecure),
		Analytics:   analytics.NewHandler(base, aggregator),
		Category:    category.NewHandler(base, category.NewService(classifier, lg)),
		Metrics:     metricsHandler,
		MetricsPath: cfg.Observability.Metrics.Path,
	}
	if cfg.RateLimit.Enabled {
		handlers.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, lg)
	}
	return handlers, nil
}

func sessionStore(ctx context.Context, deps *Dependencies) (auth.SessionStore, error) {
	cfg := deps.Config.Session
	if cfg.Store != internal.SessionStoreRedis {
		return auth.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := internal.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	deps.Redis = client
	return auth.NewRedisStore(client), nil
}
