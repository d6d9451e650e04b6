package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/renderdragon/backend/internal/models"
	"go.uber.org/zap"
)

type downloadRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDownloadRepository creates a new instance of the download counter repository
func NewDownloadRepository(db *sql.DB, logger *zap.Logger) *downloadRepository {
	return &downloadRepository{
		db:     db,
		logger: logger,
	}
}

// Method GetAll is a DownloadRepository implementation for retrieving every persisted download counter.
func (r *downloadRepository) GetAll(ctx context.Context) ([]models.DownloadCount, error) {
	query := `SELECT resource_id, count FROM downloads`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query downloads", zap.Error(err))
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	counts := make([]models.DownloadCount, 0)
	for rows.Next() {
		var c models.DownloadCount
		if err := rows.Scan(&c.ResourceID, &c.Count); err != nil {
			r.logger.Error("failed to scan download count", zap.Error(err))
			return nil, fmt.Errorf("failed to scan download count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}

// Method IncrementCount is a DownloadRepository implementation for atomically adding one download.
//
// The row is created with count 1 when the resource has never been downloaded.
func (r *downloadRepository) IncrementCount(ctx context.Context, resourceID int64) error {
	query := `
		INSERT INTO downloads (resource_id, count)
		VALUES (?, 1)
		ON DUPLICATE KEY UPDATE
			count = count + 1
	`

	if _, err := r.db.ExecContext(ctx, query, resourceID); err != nil {
		return fmt.Errorf("failed to increment download count: %w", err)
	}

	return nil
}
