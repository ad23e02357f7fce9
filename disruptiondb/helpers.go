package disruptiondb

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"disruptions.onebusaway.org/internal/appconf"
	"disruptions.onebusaway.org/internal/logging"
)

//go:embed schema.sql
var ddl string

const memoryPath = ":memory:"

// createDB creates a new SQLite database with the disruption tables
func createDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && config.DBPath != memoryPath {
		return nil, fmt.Errorf("test database must use in-memory storage, got path: %s", config.DBPath)
	}

	db, err := sql.Open("sqlite3", config.DBPath)
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: is its own database, so the pool is
	// pinned before anything touches it.
	configureConnectionPool(db, config)

	ctx := context.Background()
	if err := configureSQLite(ctx, db, config); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error configuring SQLite: %w", err)
	}

	if err := performDatabaseMigration(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	return db, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	statements := strings.Split(ddl, "-- migrate")
	for _, stmt := range statements {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmedStmt); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmedStmt, err)
		}
	}
	return nil
}

// configureSQLite applies PRAGMA settings. WAL is only meaningful for
// file-backed databases.
func configureSQLite(ctx context.Context, db *sql.DB, config Config) error {
	pragmas := []struct {
		name        string
		description string
	}{
		{"PRAGMA foreign_keys=ON", "Enforce foreign keys"},
		{"PRAGMA busy_timeout=5000", "Wait up to 5s on a locked database"},
		{"PRAGMA temp_store=MEMORY", "Store temporary data in memory"},
	}
	if config.DBPath != memoryPath {
		pragmas = append(pragmas, struct {
			name        string
			description string
		}{"PRAGMA journal_mode=WAL", "Enable write-ahead logging"})
	}

	logger := slog.Default().With(slog.String("component", "sqlite_settings"))

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma.name); err != nil {
			logging.LogError(logger, fmt.Sprintf("Failed to %s", strings.ToLower(pragma.description)), err)
			return fmt.Errorf("failed to execute %s: %w", pragma.name, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if config.verbose {
		logging.LogOperation(logger, "sqlite_settings_applied",
			slog.Int("pragma_count", len(pragmas)))
	}
	return nil
}

// configureConnectionPool limits :memory: databases to a single connection
// and gives file databases room for concurrent readers under WAL.
func configureConnectionPool(db *sql.DB, config Config) {
	if config.DBPath == memoryPath {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		return
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
}

func toNullString(s string) sql.NullString {
	return sql.NullString{
		String: s,
		Valid:  s != "",
	}
}

func toNullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// ToNullInt64 converts an optional value to sql.NullInt64, nil becoming NULL.
func ToNullInt64(i *int64) sql.NullInt64 {
	return toNullInt64(i)
}
