// Package database provides SQLite connection management and schema setup.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridline/internal/config"
)

// DB wraps a pair of SQLite connection pools. SQLite allows a single
// writer at a time, so writes funnel through a one-connection pool
// while reads fan out over a larger one.
type DB struct {
	Write  *sql.DB
	Read   *sql.DB
	logger *logrus.Logger
}

// New opens the SQLite database at the configured path and prepares
// the schema.
func New(cfg *config.DatabaseConfig, logger *logrus.Logger) (*DB, error) {
	dsn := buildDSN(cfg.Path)

	writeDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database for writing: %w", err)
	}
	writeDB.SetMaxOpenConns(1)
	writeDB.SetConnMaxIdleTime(5 * time.Minute)

	readDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to open database for reading: %w", err)
	}
	readDB.SetMaxOpenConns(cfg.ReadConnections)
	readDB.SetConnMaxIdleTime(5 * time.Minute)

	db := &DB{Write: writeDB, Read: readDB, logger: logger}

	if err := db.Ping(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.WithField("path", cfg.Path).Info("Database connection established")
	return db, nil
}

// buildDSN enables WAL mode so readers never block behind the writer,
// and a busy timeout so brief write contention retries instead of
// failing with SQLITE_BUSY.
func buildDSN(path string) string {
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", "5000")
	q.Set("_synchronous", "NORMAL")
	q.Set("_foreign_keys", "on")
	return fmt.Sprintf("file:%s?%s", path, q.Encode())
}

// initSchema creates the tables used by the service if they do not exist.
func (db *DB) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS uploaded_files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT NOT NULL,
	upload_date TIMESTAMP NOT NULL,
	file_type TEXT NOT NULL,
	data TEXT NOT NULL,
	insights TEXT
);

CREATE TABLE IF NOT EXISTS f1_data_cache (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	data_type TEXT NOT NULL,
	data TEXT NOT NULL,
	fetched_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_f1_data_cache_type_fetched
	ON f1_data_cache (data_type, fetched_at DESC);
`
	if _, err := db.Write.ExecContext(ctx, schema); err != nil {
		return err
	}
	return nil
}

// Ping verifies both connection pools are reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.Write.PingContext(ctx); err != nil {
		return err
	}
	return db.Read.PingContext(ctx)
}

// Close closes both connection pools.
func (db *DB) Close() error {
	var firstErr error
	if err := db.Read.Close(); err != nil {
		firstErr = err
	}
	if err := db.Write.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
