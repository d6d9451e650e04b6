package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testUserID = "8f14e45f-ceea-4e7a-9a3b-2f1c6b7d9e01"

// setupAuthAdmin starts an auth admin API answering DELETE requests with status and body
func setupAuthAdmin(t *testing.T, status int, body string) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var requests []*http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestAccountService_DeleteAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, requests := setupAuthAdmin(t, http.StatusOK, `{}`)
		favorites := &mockFavoriteRepository{favorites: map[string][]string{testUserID: {"1", "2"}}}
		svc := NewAccountService(server.Client(), server.URL, "service-key", favorites, zap.NewNop())

		err := svc.DeleteAccount(context.Background(), testUserID)

		require.NoError(t, err)
		require.Len(t, *requests, 1)
		req := (*requests)[0]
		assert.Equal(t, http.MethodDelete, req.Method)
		assert.Equal(t, "/auth/v1/admin/users/"+testUserID, req.URL.Path)
		assert.Equal(t, "service-key", req.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", req.Header.Get("Authorization"))
		assert.NotContains(t, favorites.favorites, testUserID)
	})

	t.Run("favorites cleanup failure is not fatal", func(t *testing.T) {
		server, _ := setupAuthAdmin(t, http.StatusNoContent, ``)
		favorites := &mockFavoriteRepository{err: errors.New("database error")}
		svc := NewAccountService(server.Client(), server.URL, "service-key", favorites, zap.NewNop())

		assert.NoError(t, svc.DeleteAccount(context.Background(), testUserID))
	})

	tests := []struct {
		name          string
		status        int
		body          string
		expectedError string
	}{
		{
			name:          "message field",
			status:        http.StatusNotFound,
			body:          `{"message":"User not found"}`,
			expectedError: "User not found",
		},
		{
			name:          "msg field",
			status:        http.StatusForbidden,
			body:          `{"msg":"not admin"}`,
			expectedError: "not admin",
		},
		{
			name:          "error field",
			status:        http.StatusUnauthorized,
			body:          `{"error":"invalid key"}`,
			expectedError: "invalid key",
		},
		{
			name:          "unreadable body",
			status:        http.StatusBadGateway,
			body:          `<html>`,
			expectedError: "unexpected response from auth provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := setupAuthAdmin(t, tt.status, tt.body)
			favorites := &mockFavoriteRepository{favorites: map[string][]string{testUserID: {"1"}}}
			svc := NewAccountService(server.Client(), server.URL, "service-key", favorites, zap.NewNop())

			err := svc.DeleteAccount(context.Background(), testUserID)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
			assert.Contains(t, favorites.favorites, testUserID, "favorites are kept when the account survives")
		})
	}
}

func TestAccountService_DeleteAccountValidation(t *testing.T) {
	server, requests := setupAuthAdmin(t, http.StatusOK, `{}`)

	svc := NewAccountService(server.Client(), "", "", &mockFavoriteRepository{}, zap.NewNop())
	assert.ErrorIs(t, svc.DeleteAccount(context.Background(), testUserID), ErrAccountDeletionUnavailable)

	svc = NewAccountService(server.Client(), server.URL, "service-key", &mockFavoriteRepository{}, zap.NewNop())
	err := svc.DeleteAccount(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid user id")

	assert.Empty(t, *requests)
}
