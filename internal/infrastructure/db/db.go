// Package db selects and assembles the record store backend.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/profitum/platform-api/internal/core/ports"
	"github.com/profitum/platform-api/internal/infrastructure/db/memory"
	mongostore "github.com/profitum/platform-api/internal/infrastructure/db/mongo"
	"github.com/profitum/platform-api/internal/infrastructure/db/postgres"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config selects a backend and carries its connection settings.
type Config struct {
	Driver        string
	PostgresDSN   string
	AutoMigrate   bool
	MongoURI      string
	MongoDatabase string
}

// Store is an instrumented record store plus the function that releases its
// connections.
type Store struct {
	ports.RecordStore
	Close func(ctx context.Context) error
}

// Open connects the configured backend and wraps it with instrumentation.
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, cfg.PostgresDSN); err != nil {
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		conn, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.PostgresDSN})
		if err != nil {
			return nil, err
		}
		logger.Info().Str("driver", DriverPostgres).Msg("record store connected")
		return &Store{
			RecordStore: Instrument(postgres.NewRecordStore(conn), logger),
			Close:       func(context.Context) error { return conn.Close() },
		}, nil

	case DriverMongo:
		client, database, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
		if err != nil {
			return nil, err
		}
		rs := mongostore.NewRecordStore(database)
		if err := rs.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		logger.Info().Str("driver", DriverMongo).Str("database", cfg.MongoDatabase).Msg("record store connected")
		return &Store{
			RecordStore: Instrument(rs, logger),
			Close:       client.Disconnect,
		}, nil

	case DriverMemory:
		logger.Warn().Str("driver", DriverMemory).Msg("using in-memory record store, data is not persisted")
		return &Store{
			RecordStore: Instrument(memory.NewRecordStore(), logger),
			Close:       func(context.Context) error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
