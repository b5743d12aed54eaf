// Package repository provides data access interfaces and SQLite implementations.
package repository

import (
	"context"
	"time"

	"github.com/yourusername/gridline/internal/models"
)

// FileRepository handles persistence of uploaded files and their insights
type FileRepository interface {
	Create(ctx context.Context, file *models.StoredFile) error
	GetByID(ctx context.Context, id int64) (*models.StoredFile, error)
	List(ctx context.Context) ([]*models.StoredFile, error)
	UpdateInsights(ctx context.Context, id int64, insights string) error
	Delete(ctx context.Context, id int64) error
}

// SnapshotRepository handles the append-only cache of upstream season data
type SnapshotRepository interface {
	Cache(ctx context.Context, dataType string, data string, fetchedAt time.Time) error
	Latest(ctx context.Context, dataType string) (string, time.Time, error)
}
