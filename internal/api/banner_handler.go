package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/service"
)

// BannerHandler handles banner requests.
type BannerHandler struct {
	banners service.BannerService
	logger  *slog.Logger
}

// NewBannerHandler creates a new BannerHandler.
func NewBannerHandler(banners service.BannerService, logger *slog.Logger) *BannerHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BannerHandler")
	}
	return &BannerHandler{
		banners: banners,
		logger:  logger.With(slog.String("component", "banner_handler")),
	}
}

// ListBanners handles GET /banners.
func (h *BannerHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.banners.ListBanners(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list banners")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, banners)
}

// GetBanner handles GET /banners/{id}.
func (h *BannerHandler) GetBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	banner, err := h.banners.GetBanner(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get banner")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, banner)
}

// CreateBanner handles POST /banners.
func (h *BannerHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var req BannerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	banner, err := h.banners.CreateBanner(r.Context(), req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create banner")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, banner)
}

// UpdateBanner handles PATCH /banners/{id}.
func (h *BannerHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req BannerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	banner, err := h.banners.UpdateBanner(r.Context(), id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update banner")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, banner)
}

// DeleteBanner handles DELETE /banners/{id}.
func (h *BannerHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.banners.DeleteBanner(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete banner")
		return
	}
	shared.RespondNoContent(w)
}

// UploadBannerImage handles POST /banners/{id}/image.
func (h *BannerHandler) UploadBannerImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	body, contentType, ok := readImageUpload(w, r)
	if !ok {
		return
	}
	banner, err := h.banners.UploadBannerImage(r.Context(), id, contentType, body)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to upload image")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, banner)
}
