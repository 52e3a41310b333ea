package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/denerose/VeganMealAppApi-sub001/internal/config"
	storepkg "github.com/denerose/VeganMealAppApi-sub001/internal/store"
	storepg "github.com/denerose/VeganMealAppApi-sub001/internal/store/postgres"
	storelite "github.com/denerose/VeganMealAppApi-sub001/internal/store/sqlite"
)

// NewStore returns the store.Store selected by cfg.DBDriver. Postgres runs
// embedded migrations on startup when cfg.MigrateOnStart is set; sqlite
// always ensures its schema.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		st, err := storelite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", "sqlite").Str("path", cfg.SQLitePath).Msg("store ready")
		return st, nil

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("MEALPLAN_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := storepg.RunMigrations(db); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		log.Info().Str("driver", "postgres").Bool("migrated", cfg.MigrateOnStart).Msg("store ready")
		return storepg.NewWithDB(db), nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
