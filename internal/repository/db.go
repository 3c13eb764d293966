package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
}

// DB bundles the sql handle with the driver it was opened on, so query
// builders can pick the right placeholder style.
type DB struct {
	SQL    *sql.DB
	Driver string // "sqlite" | "pgx"
}

// Open connects to the DSN (Postgres URL or sqlite path), applies pool
// settings, pings, and runs migrations.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := driverFor(cfg.DSN)
	logger.Info("connecting to database", "driver", driver)

	db, err := sql.Open(driver, cfg.DSN)
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
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = db.Close()
		return nil, err
	}

	d := &DB{SQL: db, Driver: driver}
	if err := d.migrate(ctx); err != nil {
		logger.Error("migration failed", "error", err)
		_ = db.Close()
		return nil, err
	}
	logger.Info("successfully connected to database")
	return d, nil
}

func (d *DB) Close(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := d.SQL.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return
	}
	logger.Info("database connections closed")
}

// HealthCheck pings the database with an optional timeout.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return d.SQL.PingContext(ctx)
}

func driverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}

// rebind rewrites "?" placeholders to "$n" for Postgres.
func (d *DB) rebind(query string) string {
	if d.Driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d *DB) migrate(ctx context.Context) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d.Driver == "pgx" {
		serial = "BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS purchases (
			id %s,
			purchase_date TEXT NOT NULL DEFAULT '',
			supplier TEXT NOT NULL DEFAULT '',
			ingredient TEXT NOT NULL,
			quantity DOUBLE PRECISION NOT NULL,
			unit TEXT NOT NULL,
			total_cost_gross DOUBLE PRECISION NOT NULL,
			tax_rate DOUBLE PRECISION NOT NULL,
			invoice_no TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT ''
		)`, serial),
		`CREATE TABLE IF NOT EXISTS ingredient_yields (
			ingredient TEXT NOT NULL,
			unit TEXT NOT NULL,
			usable_yield DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (ingredient, unit)
		)`,
		`CREATE TABLE IF NOT EXISTS recipe_items (
			item_key TEXT PRIMARY KEY,
			category TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL,
			tax_rate DOUBLE PRECISION
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS recipe_lines (
			id %s,
			item_key TEXT NOT NULL,
			ingredient TEXT NOT NULL,
			unit TEXT NOT NULL,
			qty_per_portion DOUBLE PRECISION NOT NULL
		)`, serial),
		`CREATE TABLE IF NOT EXISTS margin_rules (
			category TEXT PRIMARY KEY,
			target_margin DOUBLE PRECISION NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.SQL.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
