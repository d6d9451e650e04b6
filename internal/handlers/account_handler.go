package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/renderdragon/backend/internal/auth"
	"github.com/renderdragon/backend/internal/services"
	"go.uber.org/zap"
)

// AccountService is the interface that wraps account management
type AccountService interface {
	// Method DeleteAccount removes "userID" from the auth provider and drops their favorites.
	//
	// services.ErrAccountDeletionUnavailable is returned when admin credentials are not configured.
	DeleteAccount(ctx context.Context, userID string) error
}

// AccountHandler handles HTTP requests for the signed-in user's account
type AccountHandler struct {
	BaseHandler
	service AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(svc AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all account handler routes. Routes expect the auth middleware in front.
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Delete("/account", h.Delete)
}

// Delete handles DELETE /api/v1/account
// @Summary Delete account
// @Description Permanently delete the signed-in user and their favorites
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /account [delete]
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		switch {
		case errors.Is(err, services.ErrAccountDeletionUnavailable):
			h.logger.Error("account deletion requested without admin credentials")
			h.respondError(w, http.StatusInternalServerError, "server configuration error")
		case strings.Contains(err.Error(), "invalid user id"):
			h.respondError(w, http.StatusBadRequest, "invalid user id")
		default:
			h.respondError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
