package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/renderdragon/backend/internal/auth"
	"github.com/renderdragon/backend/internal/models"
	"go.uber.org/zap"
)

// FavoriteService is the interface that wraps methods for user favorites
type FavoriteService interface {
	// Method List returns the resource ids favorited by "userID", newest first.
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	List(ctx context.Context, userID string) ([]string, error)
	// Method Toggle adds "resourceID" to the favorites of "userID", or removes it when already present.
	//
	// An empty or oversized "resourceID" is rejected with an error.
	Toggle(ctx context.Context, userID, resourceID string) (*models.FavoriteToggleResponse, error)
}

// FavoriteHandler handles HTTP requests for favorites of signed-in users
type FavoriteHandler struct {
	BaseHandler
	service FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(svc FavoriteService, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all favorite handler routes. Routes expect the auth middleware in front.
func (h *FavoriteHandler) RegisterRoutes(r chi.Router) {
	r.Get("/favorites", h.List)
	r.Post("/favorites/{id}", h.Toggle)
}

// List handles GET /api/v1/favorites
// @Summary List favorites
// @Description Resource ids favorited by the signed-in user
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /favorites [get]
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ids, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to get favorites")
		return
	}

	h.respondJSON(w, http.StatusOK, ids)
}

// Toggle handles POST /api/v1/favorites/{id}
// @Summary Toggle favorite
// @Description Add the resource to the user's favorites, or remove it when already favorited
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Success 200 {object} models.FavoriteToggleResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /favorites/{id} [post]
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	resp, err := h.service.Toggle(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		if isValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to update favorites")
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func isValidationError(err error) bool {
	msg := err.Error()
	return msg == "resource id is required" || msg == "resource id is too long"
}
