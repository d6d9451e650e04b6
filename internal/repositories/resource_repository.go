package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/renderdragon/backend/internal/models"
	"go.uber.org/zap"
)

// resourceColumns is the column list shared by every resources query
const resourceColumns = `id, title, category, subcategory, credit, filetype, download_url, preview_url, image_url, software, description`

type resourceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewResourceRepository creates a new instance of the resources table repository
func NewResourceRepository(db *sql.DB, logger *zap.Logger) *resourceRepository {
	return &resourceRepository{
		db:     db,
		logger: logger,
	}
}

// Method GetAll is a ResourceRepository implementation for retrieving every resource from the legacy table.
func (r *resourceRepository) GetAll(ctx context.Context) ([]models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query resources", zap.Error(err))
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	return r.scanResources(rows)
}

// GetByCategory retrieves the resources of a single category
func (r *resourceRepository) GetByCategory(ctx context.Context, category models.Category) ([]models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE category = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, string(category))
	if err != nil {
		r.logger.Error("failed to query resources by category", zap.String("category", string(category)), zap.Error(err))
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	return r.scanResources(rows)
}

// UpsertBatch inserts resources in one statement, overwriting rows that already exist.
// Resource IDs must be numeric.
func (r *resourceRepository) UpsertBatch(ctx context.Context, resources []models.Resource) error {
	if len(resources) == 0 {
		return fmt.Errorf("no resources to insert")
	}

	placeholders := make([]string, len(resources))
	args := make([]any, 0, len(resources)*11)
	for i, res := range resources {
		id, err := strconv.ParseInt(res.ID.String(), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid resource id %q: %w", res.ID, err)
		}
		placeholders[i] = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args,
			id,
			res.Title,
			string(res.Category),
			nullIfEmpty(res.Subcategory),
			nullIfEmpty(res.Credit),
			nullIfEmpty(res.Filetype),
			nullIfEmpty(res.DownloadURL),
			nullIfEmpty(res.PreviewURL),
			nullIfEmpty(res.ImageURL),
			nullIfEmpty(res.Software),
			nullIfEmpty(res.Description),
		)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO resources (%s)
		VALUES %s
		ON DUPLICATE KEY UPDATE
			title = VALUES(title),
			category = VALUES(category),
			subcategory = VALUES(subcategory),
			credit = VALUES(credit),
			filetype = VALUES(filetype),
			download_url = VALUES(download_url),
			preview_url = VALUES(preview_url),
			image_url = VALUES(image_url),
			software = VALUES(software),
			description = VALUES(description)
	`, resourceColumns, strings.Join(placeholders, ","))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert resources: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteAll removes every resource and returns the number of deleted rows
func (r *resourceRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete resources: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

func (r *resourceRepository) scanResources(rows *sql.Rows) ([]models.Resource, error) {
	resources := make([]models.Resource, 0)
	for rows.Next() {
		var (
			res                                                    models.Resource
			id                                                     int64
			category                                               string
			subcategory, credit, filetype, downloadURL, previewURL sql.NullString
			imageURL, software, description                        sql.NullString
		)
		if err := rows.Scan(&id, &res.Title, &category, &subcategory, &credit, &filetype,
			&downloadURL, &previewURL, &imageURL, &software, &description); err != nil {
			r.logger.Error("failed to scan resource", zap.Error(err))
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		res.ID = models.ResourceID(strconv.FormatInt(id, 10))
		res.Category = models.Category(category)
		res.Subcategory = subcategory.String
		res.Credit = credit.String
		res.Filetype = filetype.String
		res.DownloadURL = downloadURL.String
		res.PreviewURL = previewURL.String
		res.ImageURL = imageURL.String
		res.Software = software.String
		res.Description = description.String
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return resources, nil
}

// nullIfEmpty stores empty optional strings as NULL
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
