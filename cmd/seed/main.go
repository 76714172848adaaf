// Command seed fills an existing catalog schema with a small, deterministic
// set of parts and lookup rows for local development. Tables must already
// exist; rows that are already present are left untouched.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/jackc/pgx/v5"

	pkgconfig "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/config"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/database"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/logger"
)

type seedConfig struct {
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"catalog"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
	Parts      int    `env:"SEED_PARTS" envDefault:"50"`
}

func main() {
	log := logger.New("catalog-seed", "info")

	var cfg seedConfig
	if err := pkgconfig.LoadWithOptions(&cfg, env.Options{}); err != nil {
		log.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, &database.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}, log)
	if err != nil {
		log.Error("failed to connect", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	parts := generateParts(cfg.Parts)
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, seedBatch(parts)).Close()
	})
	if err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("catalog seeded", slog.Int("parts", len(parts)))
}
