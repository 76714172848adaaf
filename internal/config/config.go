package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	pkgconfig "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/config"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/tracing"
)

// Engine names accepted by SEARCH_ENGINE.
const (
	EngineElasticsearch = "elasticsearch"
	EngineMemory        = "memory"
)

// ServiceName labels logs, metrics and traces.
const ServiceName = "catalog-search"

// Config holds all configuration for the catalog search service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort           int      `env:"PORT" envDefault:"3000"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Catalog store
	DBHost            string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort            int           `env:"DB_PORT" envDefault:"5432"`
	DBUser            string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName            string        `env:"DB_NAME" envDefault:"catalog"`
	DBSSLMode         string        `env:"DB_SSL_MODE" envDefault:"disable"`
	DBMaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns        int32         `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	SlowQueryMS       int           `env:"LOG_SLOW_QUERY_MS" envDefault:"200"`

	// Search index
	SearchEngine          string   `env:"SEARCH_ENGINE" envDefault:"elasticsearch"`
	ElasticsearchURLs     []string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200" envSeparator:","`
	ElasticsearchUsername string   `env:"ELASTICSEARCH_USERNAME"`
	ElasticsearchPassword string   `env:"ELASTICSEARCH_PASSWORD"`
	ElasticsearchIndex    string   `env:"ELASTICSEARCH_INDEX" envDefault:"parts"`
	SuggestField          string   `env:"SUGGEST_FIELD" envDefault:"partNumber.keyword"`
	SuggestMaxResults     int      `env:"SUGGEST_MAX_RESULTS" envDefault:"0"`

	// Circuit breaker around the search index transport
	BreakerMaxRequests  uint32        `env:"ES_BREAKER_MAX_REQUESTS" envDefault:"1"`
	BreakerInterval     time.Duration `env:"ES_BREAKER_INTERVAL" envDefault:"60s"`
	BreakerTimeout      time.Duration `env:"ES_BREAKER_TIMEOUT" envDefault:"30s"`
	BreakerFailureRatio float64       `env:"ES_BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests  uint32        `env:"ES_BREAKER_MIN_REQUESTS" envDefault:"5"`

	// Sync trigger throttling: SyncRateLimit triggers per SyncRateInterval.
	SyncRateLimit    int           `env:"SYNC_RATE_LIMIT" envDefault:"1"`
	SyncRateInterval time.Duration `env:"SYNC_RATE_INTERVAL" envDefault:"10s"`

	// Product detail cache
	RedisEnabled  bool          `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	DetailTTL     time.Duration `env:"DETAIL_CACHE_TTL" envDefault:"5m"`

	// Sync lifecycle events
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_SYNC_TOPIC" envDefault:"catalog.sync.completed"`

	Tracing tracing.Config
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	cfg.Tracing.ServiceName = ServiceName
	cfg.Tracing.Environment = cfg.Environment
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.DBPort < 1 || c.DBPort > 65535 {
		return fmt.Errorf("invalid DB port: %d", c.DBPort)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	switch c.SearchEngine {
	case EngineElasticsearch, EngineMemory:
	default:
		return fmt.Errorf("invalid SEARCH_ENGINE %q: must be %s or %s", c.SearchEngine, EngineElasticsearch, EngineMemory)
	}
	if c.ElasticsearchIndex == "" {
		return fmt.Errorf("ELASTICSEARCH_INDEX must not be empty")
	}
	if c.SuggestField == "" {
		return fmt.Errorf("SUGGEST_FIELD must not be empty")
	}
	if c.SuggestMaxResults < 0 {
		return fmt.Errorf("SUGGEST_MAX_RESULTS must not be negative")
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("ES_BREAKER_FAILURE_RATIO must be within (0, 1], got %v", c.BreakerFailureRatio)
	}
	if c.SyncRateLimit < 0 {
		return fmt.Errorf("SYNC_RATE_LIMIT must not be negative")
	}
	if c.SyncRateLimit > 0 && c.SyncRateInterval <= 0 {
		return fmt.Errorf("SYNC_RATE_INTERVAL must be positive when SYNC_RATE_LIMIT is set")
	}
	if c.RedisEnabled && c.DetailTTL <= 0 {
		return fmt.Errorf("DETAIL_CACHE_TTL must be positive when REDIS_ENABLED is set")
	}
	if c.KafkaEnabled && (len(c.KafkaBrokers) == 0 || c.KafkaTopic == "") {
		return fmt.Errorf("KAFKA_BROKERS and KAFKA_SYNC_TOPIC are required when KAFKA_ENABLED is set")
	}
	return c.Tracing.Validate()
}

// SlowQueryThreshold returns LOG_SLOW_QUERY_MS as a duration; zero disables
// slow-query logging.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryMS) * time.Millisecond
}
