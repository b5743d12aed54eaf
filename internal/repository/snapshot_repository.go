package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/gridline/internal/database"
	"github.com/yourusername/gridline/internal/models"
)

// SQLiteSnapshotRepository implements SnapshotRepository for SQLite.
// The cache is append-only: every fetch inserts a new row and reads
// always take the most recent one, so a failed fetch can never
// clobber the last good snapshot.
type SQLiteSnapshotRepository struct {
	db *database.DB
}

// NewSQLiteSnapshotRepository creates a new snapshot repository
func NewSQLiteSnapshotRepository(db *database.DB) SnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

// Cache appends a new snapshot row
func (r *SQLiteSnapshotRepository) Cache(ctx context.Context, dataType string, data string, fetchedAt time.Time) error {
	query := `
		INSERT INTO f1_data_cache (data_type, data, fetched_at)
		VALUES (?, ?, ?)
	`

	_, err := r.db.Write.ExecContext(ctx, query, dataType, data, fetchedAt)
	if err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}

	return nil
}

// Latest returns the most recently fetched snapshot of the given type
func (r *SQLiteSnapshotRepository) Latest(ctx context.Context, dataType string) (string, time.Time, error) {
	query := `
		SELECT data, fetched_at
		FROM f1_data_cache
		WHERE data_type = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`

	var data string
	var fetchedAt time.Time
	err := r.db.Read.QueryRowContext(ctx, query, dataType).Scan(&data, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, models.ErrNoSnapshot
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	return data, fetchedAt, nil
}
