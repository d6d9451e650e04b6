package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/renderdragon/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFavoriteService_List(t *testing.T) {
	tests := []struct {
		name          string
		repo          *mockFavoriteRepository
		expected      []string
		expectedError bool
	}{
		{
			name:     "success",
			repo:     &mockFavoriteRepository{favorites: map[string][]string{"u1": {"3", "hbg-1"}}},
			expected: []string{"3", "hbg-1"},
		},
		{
			name:     "no favorites",
			repo:     &mockFavoriteRepository{},
			expected: []string{},
		},
		{
			name:          "repository error",
			repo:          &mockFavoriteRepository{err: errors.New("database error")},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFavoriteService(tt.repo, zap.NewNop())

			ids, err := svc.List(context.Background(), "u1")

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, ids)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestFavoriteService_Toggle(t *testing.T) {
	t.Run("adds then removes", func(t *testing.T) {
		repo := &mockFavoriteRepository{}
		svc := NewFavoriteService(repo, zap.NewNop())
		ctx := context.Background()

		resp, err := svc.Toggle(ctx, "u1", " 42 ")
		require.NoError(t, err)
		assert.Equal(t, &models.FavoriteToggleResponse{ResourceID: "42", Action: models.FavoriteActionAdded}, resp)
		assert.Equal(t, []string{"42"}, repo.favorites["u1"])

		resp, err = svc.Toggle(ctx, "u1", "42")
		require.NoError(t, err)
		assert.Equal(t, models.FavoriteActionRemoved, resp.Action)
		assert.Empty(t, repo.favorites["u1"])
	})

	tests := []struct {
		name          string
		repo          *mockFavoriteRepository
		resourceID    string
		expectedError string
	}{
		{
			name:          "empty id",
			repo:          &mockFavoriteRepository{},
			resourceID:    "  ",
			expectedError: "resource id is required",
		},
		{
			name:          "id too long",
			repo:          &mockFavoriteRepository{},
			resourceID:    strings.Repeat("a", maxResourceIDLength+1),
			expectedError: "resource id is too long",
		},
		{
			name:          "lookup error",
			repo:          &mockFavoriteRepository{err: errors.New("database error")},
			resourceID:    "1",
			expectedError: "failed to update favorites",
		},
		{
			name:          "add error",
			repo:          &mockFavoriteRepository{addErr: errors.New("database error")},
			resourceID:    "1",
			expectedError: "failed to update favorites",
		},
		{
			name: "remove error",
			repo: &mockFavoriteRepository{
				favorites: map[string][]string{"u1": {"1"}},
				removeErr: errors.New("database error"),
			},
			resourceID:    "1",
			expectedError: "failed to update favorites",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFavoriteService(tt.repo, zap.NewNop())

			resp, err := svc.Toggle(context.Background(), "u1", tt.resourceID)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
			assert.Nil(t, resp)
		})
	}
}
