package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/renderdragon/backend/internal/auth"
	"github.com/renderdragon/backend/internal/models"
	"github.com/renderdragon/backend/internal/services"
	"go.uber.org/zap"
)

// ResourceService is the interface that wraps methods for catalog browsing
type ResourceService interface {
	// Method List filters, sorts and pages the aggregated catalog.
	//
	// "query" carries the search text, category, subcategory, sort order and paging of the listing.
	// Upstream failures never surface here: they yield an empty listing.
	// An invalid page or page size is returned as an error together with "nil" value.
	List(ctx context.Context, query services.ResourceQuery) (*models.ResourcePage, error)
	// Method Categories returns the catalog categories with their resource counts.
	Categories(ctx context.Context) []models.CategorySummary
	// Method Find returns a single resource together with its resolved download location.
	//
	// The error "resource not found" is returned when no source lists the resource.
	Find(ctx context.Context, category, id string) (*models.ResourceDetail, error)
}

// FavoriteLister is the interface that wraps lookup of a signed-in user's favorites
type FavoriteLister interface {
	// Method List returns the resource ids favorited by "userID".
	List(ctx context.Context, userID string) ([]string, error)
}

// ResourceHandler handles HTTP requests for the resource catalog
type ResourceHandler struct {
	BaseHandler
	service   ResourceService
	favorites FavoriteLister
}

// NewResourceHandler creates a new resource handler.
// "favorites" may be nil, in which case favorites listings rely on the "ids" parameter only.
func NewResourceHandler(svc ResourceService, favorites FavoriteLister, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
		favorites:   favorites,
	}
}

// RegisterRoutes registers all resource handler routes
func (h *ResourceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/resources", h.List)
	r.Get("/resources/categories", h.Categories)
	r.Get("/resources/{category}/{id}", h.GetByID)
}

// List handles GET /api/v1/resources
// @Summary List resources
// @Description Filter, sort and page the aggregated resource catalog. Minecraft icons are only listed when requested explicitly.
// @Tags resources
// @Accept json
// @Produce json
// @Param search query string false "Case-insensitive title search"
// @Param category query string false "Category, 'all' or 'favorites'"
// @Param subcategory query string false "Subcategory, ignored when the category has no such subcategory"
// @Param sort query string false "newest (default), popular, a-z or z-a"
// @Param page query int false "Page number, default: 1"
// @Param pageSize query int false "Page size, default: 24, max: 500"
// @Param ids query string false "Comma-separated favorite ids for anonymous clients"
// @Success 200 {object} models.ResourcePage
// @Failure 400 {object} map[string]string
// @Router /resources [get]
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, ok := queryInt(r, "page")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid page parameter")
		return
	}
	pageSize, ok := queryInt(r, "pageSize")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid pageSize parameter")
		return
	}

	query := services.ResourceQuery{
		Search:      q.Get("search"),
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Sort:        models.ParseSortOrder(q.Get("sort")),
		Page:        page,
		PageSize:    pageSize,
	}

	if strings.TrimSpace(query.Category) == string(models.CategoryFavorites) {
		query.FavoriteIDs = h.favoriteIDs(r)
	}

	result, err := h.service.List(r.Context(), query)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// Categories handles GET /api/v1/resources/categories
// @Summary List categories
// @Description Categories of the catalog with resource counts
// @Tags resources
// @Produce json
// @Success 200 {array} models.CategorySummary
// @Router /resources/categories [get]
func (h *ResourceHandler) Categories(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.Categories(r.Context()))
}

// GetByID handles GET /api/v1/resources/{category}/{id}
// @Summary Get resource
// @Description Get a single resource with its resolved download URL and download count
// @Tags resources
// @Produce json
// @Param category path string true "Category"
// @Param id path string true "Resource ID"
// @Success 200 {object} models.ResourceDetail
// @Failure 404 {object} map[string]string
// @Router /resources/{category}/{id} [get]
func (h *ResourceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	id := chi.URLParam(r, "id")

	detail, err := h.service.Find(r.Context(), category, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.respondError(w, http.StatusNotFound, "resource not found")
			return
		}
		h.logger.Error("failed to get resource", zap.String("category", category), zap.String("id", id), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get resource")
		return
	}

	h.respondJSON(w, http.StatusOK, detail)
}

// favoriteIDs merges the ids sent by the client with the stored favorites of a signed-in user
func (h *ResourceHandler) favoriteIDs(r *http.Request) []string {
	ids := splitIDs(r.URL.Query().Get("ids"))

	userID, ok := auth.GetUserID(r.Context())
	if !ok || h.favorites == nil {
		return ids
	}
	stored, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		h.logger.Warn("failed to load favorites for listing", zap.String("user_id", userID), zap.Error(err))
		return ids
	}
	return append(ids, stored...)
}
