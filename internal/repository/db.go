package repository

import (
	"context"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type Config struct {
	// DSN selects the store: a postgres:// URL opens Postgres via pgx,
	// anything else is treated as a sqlite database file path.
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	DialTimeout  time.Duration
}

const claimsTable = "fra_claim_individual"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ` + claimsTable + ` (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_filename TEXT NOT NULL DEFAULT '',
	claimant_name TEXT NOT NULL DEFAULT '',
	spouse_name TEXT NOT NULL DEFAULT '',
	father_or_mother_name TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	village TEXT NOT NULL DEFAULT '',
	gram_panchayat TEXT NOT NULL DEFAULT '',
	tehsil_taluka TEXT NOT NULL DEFAULT '',
	district TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	is_scheduled_tribe TEXT NOT NULL DEFAULT '',
	is_otfd TEXT NOT NULL DEFAULT '',
	land_area TEXT NOT NULL DEFAULT '',
	raw_text TEXT NOT NULL DEFAULT '',
	ocr_confidence REAL NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending_review'
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS ` + claimsTable + ` (
	id BIGSERIAL PRIMARY KEY,
	source_filename TEXT NOT NULL DEFAULT '',
	claimant_name TEXT NOT NULL DEFAULT '',
	spouse_name TEXT NOT NULL DEFAULT '',
	father_or_mother_name TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	village TEXT NOT NULL DEFAULT '',
	gram_panchayat TEXT NOT NULL DEFAULT '',
	tehsil_taluka TEXT NOT NULL DEFAULT '',
	district TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	is_scheduled_tribe TEXT NOT NULL DEFAULT '',
	is_otfd TEXT NOT NULL DEFAULT '',
	land_area TEXT NOT NULL DEFAULT '',
	raw_text TEXT NOT NULL DEFAULT '',
	ocr_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending_review'
)`

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to the claims store, pings it, and bootstraps the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sqlx.DB, error) {
	driver, schema := "sqlite", sqliteSchema
	if isPostgresDSN(cfg.DSN) {
		driver, schema = "pgx", postgresSchema
	}
	logger.Info("connecting to database", "driver", driver)

	db, err := sqlx.Open(driver, cfg.DSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("schema bootstrap failed", "error", err)
		_ = db.Close()
		return nil, err
	}

	logger.Info("successfully connected to database")
	return db, nil
}

// Close closes the database connection gracefully.
func Close(db *sqlx.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return
	}
	logger.Info("database connection closed")
}
