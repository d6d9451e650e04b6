package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/renderdragon/backend/internal/models"
	"go.uber.org/zap"
)

// CacheService is the interface that wraps cache inspection and clearing
type CacheService interface {
	// Method Age reports how old the cache entry "key" of "namespace" is.
	//
	// "namespace" is "resources" (default when empty) or "api".
	// The error "cache entry not found" is returned for missing or expired entries.
	Age(ctx context.Context, namespace, key string) (*models.CacheAgeResponse, error)
	// Method ClearAll empties the JSON caches and the binary cache.
	ClearAll(ctx context.Context) *models.CacheClearResponse
}

// CatalogRefresher is the interface that wraps a forced catalog reload
type CatalogRefresher interface {
	// Method Refresh reloads every source bypassing the caches and reports what was loaded.
	Refresh(ctx context.Context) (*models.RefreshSummary, error)
}

// CacheHandler handles HTTP requests for cache maintenance
type CacheHandler struct {
	BaseHandler
	service   CacheService
	refresher CatalogRefresher
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(svc CacheService, refresher CatalogRefresher, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
		refresher:   refresher,
	}
}

// RegisterRoutes registers all cache handler routes. Routes expect the API key middleware in front.
func (h *CacheHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cache/age", h.Age)
	r.Delete("/cache", h.Clear)
	r.Post("/cache/refresh", h.Refresh)
}

// Age handles GET /api/v1/cache/age
// @Summary Get cache entry age
// @Tags cache
// @Produce json
// @Security ApiKeyAuth
// @Param key query string true "Cache key, e.g. all-v1 or api:categories"
// @Param namespace query string false "resources (default) or api"
// @Success 200 {object} models.CacheAgeResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cache/age [get]
func (h *CacheHandler) Age(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resp, err := h.service.Age(r.Context(), q.Get("namespace"), q.Get("key"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// Clear handles DELETE /api/v1/cache
// @Summary Clear caches
// @Tags cache
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.CacheClearResponse
// @Failure 401 {object} map[string]string
// @Router /cache [delete]
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.ClearAll(r.Context()))
}

// Refresh handles POST /api/v1/cache/refresh
// @Summary Refresh the catalog
// @Description Reload every source bypassing the caches
// @Tags cache
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.RefreshSummary
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /cache/refresh [post]
func (h *CacheHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	summary, err := h.refresher.Refresh(r.Context())
	if err != nil {
		h.logger.Error("failed to refresh catalog", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to refresh catalog")
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}
