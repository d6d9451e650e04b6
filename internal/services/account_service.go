package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAccountDeletionUnavailable is returned when the admin credentials are not configured
var ErrAccountDeletionUnavailable = errors.New("account deletion is not configured")

// FavoriteCleaner is the interface that wraps removal of a user's favorites
type FavoriteCleaner interface {
	// Method DeleteByUser removes every favorite of "userID" and returns how many were deleted.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type accountService struct {
	httpClient     *http.Client
	authURL        string
	serviceRoleKey string
	favorites      FavoriteCleaner
	logger         *zap.Logger
}

// NewAccountService creates a new account service talking to the auth admin API at authURL
func NewAccountService(httpClient *http.Client, authURL, serviceRoleKey string, favorites FavoriteCleaner, logger *zap.Logger) *accountService {
	return &accountService{
		httpClient:     httpClient,
		authURL:        authURL,
		serviceRoleKey: serviceRoleKey,
		favorites:      favorites,
		logger:         logger,
	}
}

// DeleteAccount removes the user from the auth provider and drops the data kept for them
func (s *accountService) DeleteAccount(ctx context.Context, userID string) error {
	if s.authURL == "" || s.serviceRoleKey == "" {
		return ErrAccountDeletionUnavailable
	}
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	endpoint := fmt.Sprintf("%s/auth/v1/admin/users/%s", s.authURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("apikey", s.serviceRoleKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceRoleKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("failed to call auth admin API", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to delete account: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := adminErrorMessage(resp.Body)
		s.logger.Error("auth admin API rejected account deletion",
			zap.String("user_id", userID),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		return fmt.Errorf("failed to delete account: %s", message)
	}

	deleted, err := s.favorites.DeleteByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to delete favorites of removed account", zap.String("user_id", userID), zap.Error(err))
	}

	s.logger.Info("account deleted", zap.String("user_id", userID), zap.Int64("favorites_removed", deleted))
	return nil
}

// adminErrorMessage extracts the message of an auth API error body
func adminErrorMessage(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	var payload struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, m := range []string{payload.Message, payload.Msg, payload.Error} {
			if m != "" {
				return m
			}
		}
	}
	return "unexpected response from auth provider"
}
