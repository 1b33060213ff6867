package db

import (
	"database/sql"
	"fmt"
	"time"

	"gigmarket-be/internal/config"
	"gigmarket-be/internal/logger"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// InitDB opens the postgres pool and verifies the connection before the
// server starts taking traffic.
func InitDB(cfg *config.Config) *sql.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.L().Fatal("failed to open database", zap.Error(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		logger.L().Fatal("failed to ping database",
			zap.String("host", cfg.DBHost),
			zap.Error(err),
		)
	}

	logger.L().Info("database connection established", zap.String("db", cfg.DBName))
	return db
}
