package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/renderdragon/backend/internal/models"
	"go.uber.org/zap"
)

// maxResourceIDLength matches the width of the resource_id columns
const maxResourceIDLength = 128

// FavoriteRepository is the interface that wraps methods for user_favorites table data access
type FavoriteRepository interface {
	// Method GetByUser retrieve the favorites of "userID", newest first.
	GetByUser(ctx context.Context, userID string) ([]models.Favorite, error)
	// Method Exists checks whether "userID" has favorited "resourceID".
	Exists(ctx context.Context, userID, resourceID string) (bool, error)
	// Method Add stores a favorite. Adding an existing favorite is a no-op.
	Add(ctx context.Context, userID, resourceID string) error
	// Method Remove deletes a favorite. The error "favorite not found" is returned when it does not exist.
	Remove(ctx context.Context, userID, resourceID string) error
	// Method DeleteByUser removes every favorite of "userID" and returns how many were deleted.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type favoriteService struct {
	repo   FavoriteRepository
	logger *zap.Logger
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(repo FavoriteRepository, logger *zap.Logger) *favoriteService {
	return &favoriteService{
		repo:   repo,
		logger: logger,
	}
}

// List returns the resource ids the user has favorited
func (s *favoriteService) List(ctx context.Context, userID string) ([]string, error) {
	favorites, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get favorites", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}

	ids := make([]string, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ResourceID)
	}
	return ids, nil
}

// Toggle adds the resource to the user's favorites, or removes it when it is already there
func (s *favoriteService) Toggle(ctx context.Context, userID, resourceID string) (*models.FavoriteToggleResponse, error) {
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		return nil, fmt.Errorf("resource id is required")
	}
	if len(resourceID) > maxResourceIDLength {
		return nil, fmt.Errorf("resource id is too long")
	}

	exists, err := s.repo.Exists(ctx, userID, resourceID)
	if err != nil {
		s.logger.Error("failed to check favorite", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to update favorites: %w", err)
	}

	if exists {
		if err := s.repo.Remove(ctx, userID, resourceID); err != nil {
			s.logger.Error("failed to remove favorite", zap.String("user_id", userID), zap.Error(err))
			return nil, fmt.Errorf("failed to update favorites: %w", err)
		}
		return &models.FavoriteToggleResponse{ResourceID: resourceID, Action: models.FavoriteActionRemoved}, nil
	}

	if err := s.repo.Add(ctx, userID, resourceID); err != nil {
		s.logger.Error("failed to add favorite", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to update favorites: %w", err)
	}
	return &models.FavoriteToggleResponse{ResourceID: resourceID, Action: models.FavoriteActionAdded}, nil
}
