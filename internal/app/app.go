package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	rediscache "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/cache/redis"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/config"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/engine"
	esengine "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/engine/elasticsearch"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/engine/memory"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/event"
	handler "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/handler/http"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/repository/postgres"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/service"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/database"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/health"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/httpclient"
	pkgkafka "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/kafka"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/middleware"
)

// App wires together all dependencies and runs the catalog search service.
type App struct {
	cfg           *config.Config
	logger        *slog.Logger
	pool          *pgxpool.Pool
	redisClient   *redis.Client
	kafkaProducer *pkgkafka.Producer
	httpServer    *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Catalog store.
	pool, err := database.NewPostgresPool(ctx, &database.PostgresConfig{
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		DBName:          cfg.DBName,
		SSLMode:         cfg.DBSSLMode,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to catalog store: %w", err)
	}
	a.pool = pool
	if err := database.RegisterPoolMetrics(reg, pool, config.ServiceName); err != nil {
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}
	logger.Info("connected to catalog store",
		slog.String("host", cfg.DBHost),
		slog.String("database", cfg.DBName),
	)

	repo := postgres.NewCatalogRepository(pool, database.NewQueryTracer(cfg.SlowQueryThreshold(), logger))

	// Search index.
	index, err := newCatalogIndex(cfg, reg, logger)
	if err != nil {
		return nil, err
	}

	// Product detail cache.
	var (
		detailCache service.DetailCache
		redisCache  *rediscache.DetailCache
	)
	if cfg.RedisEnabled {
		client, err := database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redisClient = client
		redisCache = rediscache.NewDetailCache(client, cfg.DetailTTL)
		detailCache = redisCache
		logger.Info("product detail cache enabled", slog.Duration("ttl", cfg.DetailTTL))
	}

	// Sync lifecycle events.
	var syncEvents service.SyncEventPublisher
	if cfg.KafkaEnabled {
		a.kafkaProducer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		syncEvents = event.NewProducer(a.kafkaProducer, cfg.KafkaTopic, cfg.ElasticsearchIndex, logger)
		logger.Info("kafka producer initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.String("topic", cfg.KafkaTopic),
		)
	}

	// Services.
	syncMetrics, err := service.NewSyncMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register sync metrics: %w", err)
	}
	syncService := service.NewSyncService(repo, index, syncEvents, syncMetrics, logger)
	suggestService := service.NewSuggestService(index, logger)
	detailService := service.NewDetailService(repo, detailCache, logger)

	// Health checks.
	healthHandler := newHealthHandler(pool.Ping, index.Ping, redisCache, a.kafkaProducer)

	// HTTP router.
	httpMetrics, err := middleware.NewHTTPMetrics(reg, config.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	catalogHandler := handler.NewCatalogHandler(syncService, suggestService, detailService, syncLimiter(cfg), logger)
	router := handler.NewRouter(catalogHandler, healthHandler, handler.RouterOptions{
		CORS:           corsCfg,
		Metrics:        httpMetrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}, logger)

	// No WriteTimeout: a full sync can take longer than any fixed deadline.
	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ok = true
	return a, nil
}

func newCatalogIndex(cfg *config.Config, reg prometheus.Registerer, logger *slog.Logger) (engine.CatalogIndex, error) {
	if cfg.SearchEngine == config.EngineMemory {
		logger.Info("in-memory search engine initialized")
		return memory.New(cfg.SuggestMaxResults), nil
	}

	breakerMetrics, err := httpclient.NewBreakerMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register breaker metrics: %w", err)
	}
	breakerCfg := httpclient.DefaultCircuitBreakerConfig("elasticsearch")
	breakerCfg.MaxRequests = cfg.BreakerMaxRequests
	breakerCfg.Interval = cfg.BreakerInterval
	breakerCfg.Timeout = cfg.BreakerTimeout
	breakerCfg.FailureRatio = cfg.BreakerFailureRatio
	breakerCfg.MinRequests = cfg.BreakerMinRequests
	transport := httpclient.NewBreakerTransport(http.DefaultTransport, breakerCfg, breakerMetrics, logger)

	es, err := esengine.New(esengine.Config{
		Addresses:    cfg.ElasticsearchURLs,
		Username:     cfg.ElasticsearchUsername,
		Password:     cfg.ElasticsearchPassword,
		Index:        cfg.ElasticsearchIndex,
		SuggestField: cfg.SuggestField,
		SuggestSize:  cfg.SuggestMaxResults,
		Transport:    transport,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init elasticsearch engine: %w", err)
	}
	logger.Info("elasticsearch search engine initialized",
		slog.Any("addresses", cfg.ElasticsearchURLs),
		slog.String("index", cfg.ElasticsearchIndex),
		slog.String("suggest_field", cfg.SuggestField),
	)
	return es, nil
}

// newHealthHandler registers the store and index as critical checks and the
// optional cache and event producer as non-critical ones.
func newHealthHandler(db, index health.Checker, cache *rediscache.DetailCache, producer *pkgkafka.Producer) *health.Handler {
	h := health.NewHandler()
	h.RegisterCritical("postgres", db)
	h.RegisterCritical("search", index)
	if cache != nil {
		h.RegisterNonCritical("redis", cache.Ping)
	}
	if producer != nil {
		h.RegisterNonCritical("kafka", producer.Ping)
	}
	return h
}

// syncLimiter allows SyncRateLimit triggers per SyncRateInterval, or returns
// nil when throttling is off.
func syncLimiter(cfg *config.Config) *rate.Limiter {
	if cfg.SyncRateLimit <= 0 {
		return nil
	}
	every := cfg.SyncRateInterval / time.Duration(cfg.SyncRateLimit)
	return rate.NewLimiter(rate.Every(every), cfg.SyncRateLimit)
}

// Run starts the HTTP server, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if err := a.close(); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// close releases the backing clients in reverse order of creation.
func (a *App) close() error {
	var errs []error
	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	return errors.Join(errs...)
}
