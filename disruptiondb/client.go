package disruptiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"disruptions.onebusaway.org/internal/logging"
	_ "github.com/mattn/go-sqlite3" // CGo-based SQLite driver
)

// ErrNotFound is returned when a disruption id does not exist.
var ErrNotFound = errors.New("disruption not found")

// Client is the main entry point for the disruption store
type Client struct {
	config  Config
	DB      *sql.DB
	Queries *Queries
	logger  *slog.Logger
}

// NewClient opens the database described by config and applies the schema.
func NewClient(config Config) (*Client, error) {
	logger := slog.Default().With(slog.String("component", "disruptiondb"))

	db, err := createDB(config)
	if err != nil {
		return nil, fmt.Errorf("unable to create DB: %w", err)
	} else if config.verbose {
		logging.LogOperation(logger, "disruption_tables_created",
			slog.String("db_path", config.DBPath))
	}

	return &Client{
		config:  config,
		DB:      db,
		Queries: New(db),
		logger:  logger,
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) GetDBPath() string {
	return c.config.DBPath
}

// inTx runs fn inside a transaction, committing when fn returns nil.
func (c *Client) inTx(ctx context.Context, operation string, fn func(q *Queries) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", operation, err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, operation)

	if err := fn(c.Queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", operation, err)
	}
	return nil
}
