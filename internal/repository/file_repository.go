package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yourusername/gridline/internal/database"
	"github.com/yourusername/gridline/internal/models"
)

const errScanFile = "failed to scan file: %w"

// SQLiteFileRepository implements FileRepository for SQLite
type SQLiteFileRepository struct {
	db *database.DB
}

// NewSQLiteFileRepository creates a new file repository
func NewSQLiteFileRepository(db *database.DB) FileRepository {
	return &SQLiteFileRepository{db: db}
}

// Create inserts a new uploaded file and sets its generated ID
func (r *SQLiteFileRepository) Create(ctx context.Context, file *models.StoredFile) error {
	query := `
		INSERT INTO uploaded_files (filename, upload_date, file_type, data, insights)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Write.ExecContext(ctx, query,
		file.Filename, file.UploadDate, file.FileType, file.Data, file.Insights,
	)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted file id: %w", err)
	}
	file.ID = id

	return nil
}

// GetByID retrieves an uploaded file by ID, including its raw content
func (r *SQLiteFileRepository) GetByID(ctx context.Context, id int64) (*models.StoredFile, error) {
	query := `
		SELECT id, filename, upload_date, file_type, data, insights
		FROM uploaded_files WHERE id = ?
	`

	file := &models.StoredFile{}
	err := r.db.Read.QueryRowContext(ctx, query, id).Scan(
		&file.ID, &file.Filename, &file.UploadDate, &file.FileType, &file.Data, &file.Insights,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return file, nil
}

// List retrieves all uploaded files, newest first, without raw content
func (r *SQLiteFileRepository) List(ctx context.Context) ([]*models.StoredFile, error) {
	query := `
		SELECT id, filename, upload_date, file_type, insights
		FROM uploaded_files
		ORDER BY upload_date DESC, id DESC
	`

	rows, err := r.db.Read.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []*models.StoredFile
	for rows.Next() {
		file := &models.StoredFile{}
		err := rows.Scan(&file.ID, &file.Filename, &file.UploadDate, &file.FileType, &file.Insights)
		if err != nil {
			return nil, fmt.Errorf(errScanFile, err)
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

// UpdateInsights replaces the stored insights for a file
func (r *SQLiteFileRepository) UpdateInsights(ctx context.Context, id int64, insights string) error {
	query := "UPDATE uploaded_files SET insights = ? WHERE id = ?"

	result, err := r.db.Write.ExecContext(ctx, query, insights, id)
	if err != nil {
		return fmt.Errorf("failed to update insights: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes an uploaded file
func (r *SQLiteFileRepository) Delete(ctx context.Context, id int64) error {
	query := "DELETE FROM uploaded_files WHERE id = ?"

	result, err := r.db.Write.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}

	return nil
}
