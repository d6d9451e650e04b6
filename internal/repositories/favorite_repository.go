package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/renderdragon/backend/internal/models"
)

// favoriteRepository implements favorite repository operations
type favoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *sql.DB) *favoriteRepository {
	return &favoriteRepository{
		db: db,
	}
}

// GetByUser retrieves the favorites of a user, newest first
func (r *favoriteRepository) GetByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	query := `
		SELECT resource_id, created_at
		FROM user_favorites
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]models.Favorite, 0)
	for rows.Next() {
		fav := models.Favorite{UserID: userID}
		if err := rows.Scan(&fav.ResourceID, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return favorites, nil
}

// Exists checks whether the user has already favorited the resource
func (r *favoriteRepository) Exists(ctx context.Context, userID, resourceID string) (bool, error) {
	query := `SELECT COUNT(*) FROM user_favorites WHERE user_id = ? AND resource_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, resourceID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}

	return count > 0, nil
}

// Add stores a favorite. Adding an existing favorite is a no-op.
func (r *favoriteRepository) Add(ctx context.Context, userID, resourceID string) error {
	query := `INSERT IGNORE INTO user_favorites (user_id, resource_id) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, userID, resourceID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	return nil
}

// Remove deletes a favorite
func (r *favoriteRepository) Remove(ctx context.Context, userID, resourceID string) error {
	query := `DELETE FROM user_favorites WHERE user_id = ? AND resource_id = ?`

	result, err := r.db.ExecContext(ctx, query, userID, resourceID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("favorite not found")
	}

	return nil
}

// DeleteByUser removes every favorite of a user and returns how many were deleted
func (r *favoriteRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_favorites WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete favorites: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
