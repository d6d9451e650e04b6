package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/renderdragon/backend/internal/models"
	"go.uber.org/zap"
)

// DownloadService is the interface that wraps methods for resource downloads
type DownloadService interface {
	// Method Download performs the download action of a resource and counts it.
	//
	// The returned payload is either a redirect or the file body to send as an attachment.
	// The error "resource not found" is returned when no source lists the resource.
	Download(ctx context.Context, category, id string) (*models.DownloadPayload, error)
	// Method Record counts a download performed by the client itself and returns the new count.
	Record(ctx context.Context, id string) (*models.DownloadIncrementResponse, error)
}

// CountSnapshotter is the interface that wraps reading of the download counts
type CountSnapshotter interface {
	// Method Snapshot returns a copy of the in-memory download counts.
	Snapshot() models.DownloadCounts
}

// DownloadHandler handles HTTP requests for downloads and download counts
type DownloadHandler struct {
	BaseHandler
	service DownloadService
	counts  CountSnapshotter
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(svc DownloadService, counts CountSnapshotter, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
		counts:      counts,
	}
}

// RegisterRoutes registers all download handler routes
func (h *DownloadHandler) RegisterRoutes(r chi.Router) {
	r.Get("/resources/{category}/{id}/download", h.Download)
	r.Get("/downloads", h.GetCounts)
	r.Post("/downloads/{id}", h.Increment)
}

// Download handles GET /api/v1/resources/{category}/{id}/download
// @Summary Download resource
// @Description Presets, images, animations, fonts, music, sfx and Minecraft icons are sent as attachments; other resources redirect to their source
// @Tags downloads
// @Produce application/octet-stream
// @Param category path string true "Category"
// @Param id path string true "Resource ID"
// @Success 200 "File content"
// @Success 302 "Redirect to the resource URL"
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /resources/{category}/{id}/download [get]
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	id := chi.URLParam(r, "id")

	payload, err := h.service.Download(r.Context(), category, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.respondError(w, http.StatusNotFound, "resource not found")
			return
		}
		h.logger.Error("failed to download resource", zap.String("category", category), zap.String("id", id), zap.Error(err))
		h.respondError(w, http.StatusBadGateway, "failed to download resource")
		return
	}

	if payload.IsRedirect() {
		http.Redirect(w, r, payload.RedirectURL, http.StatusFound)
		return
	}
	h.respondAttachment(w, payload.Body, payload.ContentType, payload.Filename)
}

// GetCounts handles GET /api/v1/downloads
// @Summary Get download counts
// @Description Download totals keyed by resource id
// @Tags downloads
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /downloads [get]
func (h *DownloadHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.counts.Snapshot())
}

// Increment handles POST /api/v1/downloads/{id}
// @Summary Count a download
// @Description Count a download the client performed directly
// @Tags downloads
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} models.DownloadIncrementResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /downloads/{id} [post]
func (h *DownloadHandler) Increment(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Record(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.respondError(w, http.StatusNotFound, "resource not found")
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}
