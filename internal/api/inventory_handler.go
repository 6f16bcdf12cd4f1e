package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/service"
)

// InventoryHandler handles storage and product-storage requests.
type InventoryHandler struct {
	inventory service.InventoryService
	logger    *slog.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventory service.InventoryService, logger *slog.Logger) *InventoryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for InventoryHandler")
	}
	return &InventoryHandler{
		inventory: inventory,
		logger:    logger.With(slog.String("component", "inventory_handler")),
	}
}

// ListStorages handles GET /storages.
func (h *InventoryHandler) ListStorages(w http.ResponseWriter, r *http.Request) {
	storages, err := h.inventory.ListStorages(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list storages")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, storages)
}

// GetStorage handles GET /storages/{id}.
func (h *InventoryHandler) GetStorage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	storage, err := h.inventory.GetStorage(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get storage")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, storage)
}

// CreateStorage handles POST /storages.
func (h *InventoryHandler) CreateStorage(w http.ResponseWriter, r *http.Request) {
	var req StorageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	storage, err := h.inventory.CreateStorage(r.Context(), req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create storage")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, storage)
}

// UpdateStorage handles PATCH /storages/{id}.
func (h *InventoryHandler) UpdateStorage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req StorageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	storage, err := h.inventory.UpdateStorage(r.Context(), id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update storage")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, storage)
}

// DeleteStorage handles DELETE /storages/{id}.
func (h *InventoryHandler) DeleteStorage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.inventory.DeleteStorage(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete storage")
		return
	}
	shared.RespondNoContent(w)
}

// ListStorageProducts handles GET /storages/{id}/products.
func (h *InventoryHandler) ListStorageProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	links, err := h.inventory.ListStorageProducts(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list storage products")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, links)
}

// ListProductStorages handles GET /product-storages.
func (h *InventoryHandler) ListProductStorages(w http.ResponseWriter, r *http.Request) {
	links, err := h.inventory.ListProductStorages(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list product storages")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, links)
}

// GetProductStorage handles GET /product-storages/{id}.
func (h *InventoryHandler) GetProductStorage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	link, err := h.inventory.GetProductStorage(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get product storage")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, link)
}

// CreateProductStorage handles POST /product-storages.
func (h *InventoryHandler) CreateProductStorage(w http.ResponseWriter, r *http.Request) {
	var req ProductStorageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	link, err := h.inventory.CreateProductStorage(r.Context(), req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create product storage")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, link)
}

// UpdateProductStorage handles PATCH /product-storages/{id}.
func (h *InventoryHandler) UpdateProductStorage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req ProductStorageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	link, err := h.inventory.UpdateProductStorage(r.Context(), id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update product storage")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, link)
}

// DeleteProductStorage handles DELETE /product-storages/{id}.
func (h *InventoryHandler) DeleteProductStorage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.inventory.DeleteProductStorage(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete product storage")
		return
	}
	shared.RespondNoContent(w)
}
