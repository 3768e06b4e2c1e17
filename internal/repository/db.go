// Package repository keeps run history: one row per pipeline run plus the
// artifacts it produced. Backed by database/sql; the driver is chosen from
// the DSN, sqlite for local files and pgx for postgres URLs.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/equipment-config/internal/common"
)

type Config struct {
	DSN         string
	DialTimeout time.Duration
}

// Open connects, applies sqlite pragmas where relevant, and creates the
// schema if missing.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := "sqlite"
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		driver = "pgx"
	}
	logger.Info("connecting to database", "driver", driver)

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, fmt.Errorf("open %s: %v: %w", driver, err, common.ErrDatabase)
	}

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		logger.Error("failed to connect to database", "error", err)
		return nil, fmt.Errorf("ping: %v: %w", err, common.ErrDatabase)
	}

	if driver == "sqlite" {
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("%s: %v: %w", pragma, err, common.ErrDatabase)
			}
		}
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("successfully connected to database")
	return &DB{db: db, driver: driver, log: logger}, nil
}

type DB struct {
	db     *sql.DB
	driver string
	log    *slog.Logger
}

func (d *DB) Close() error {
	d.log.Info("closing database connection")
	return d.db.Close()
}

// HealthCheck pings to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %v: %w", err, common.ErrDatabase)
	}
	return nil
}

// rebind rewrites ? placeholders to $1..$n for postgres. Queries in this
// package are written with ? so they stay portable across both drivers.
func (d *DB) rebind(query string) string {
	if d.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Timestamps are stored as RFC3339 TEXT so the DDL works unchanged on both
// backends.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	equipment_type TEXT NOT NULL,
	document_path TEXT NOT NULL,
	status TEXT NOT NULL,
	combinations INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_artifacts (
	run_id TEXT NOT NULL,
	combination TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	config TEXT NOT NULL,
	calculations TEXT NOT NULL DEFAULT '{}',
	path TEXT NOT NULL DEFAULT '',
	saved INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	PRIMARY KEY(run_id, name),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %v: %w", err, common.ErrDatabase)
	}
	return nil
}
