package database

import (
	"fmt"

	"github.com/hnam209/studypilot/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the Postgres connection used by the gorm repositories.
// When the memory storage backend is selected no connection is needed and
// nil is returned; the memory repositories ignore it.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Storage == "memory" {
		log.Info().Msg("Memory storage backend selected, skipping database connection")
		return nil, nil
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("host", cfg.Database.Host).Str("name", cfg.Database.Name).Msg("Database connected")
	return db, nil
}
