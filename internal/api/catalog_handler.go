package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service"
)

// CatalogHandler handles category and product requests.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CatalogHandler")
	}
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "catalog_handler")),
	}
}

// ListCategories handles GET /categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list categories")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// GetCategory handles GET /categories/{id}.
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get category")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// CreateCategory handles POST /categories.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create category")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, category)
}

// UpdateCategory handles PATCH /categories/{id}.
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	category, err := h.catalog.UpdateCategory(r.Context(), id, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update category")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/{id}.
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete category")
		return
	}
	shared.RespondNoContent(w)
}

// ListChildren handles GET /categories/{id}/children.
func (h *CatalogHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	children, err := h.catalog.ListChildren(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list child categories")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, children)
}

// CountChildren handles GET /categories/{id}/children/count.
func (h *CatalogHandler) CountChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	count, err := h.catalog.CountChildren(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count child categories")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: count})
}

// UploadCategoryImage handles POST /categories/{id}/image.
func (h *CatalogHandler) UploadCategoryImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	body, contentType, ok := readImageUpload(w, r)
	if !ok {
		return
	}
	category, err := h.catalog.UploadCategoryImage(r.Context(), id, contentType, body)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to upload image")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// ListProducts handles GET /products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list products")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get product")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, product)
}

// GetProducts handles POST /products/bulk.
func (h *CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	var req BulkProductsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	products, err := h.catalog.GetProducts(r.Context(), req.IDs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get products")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, products)
}

// CreateProduct handles POST /products. A product without a description
// gets a generated one.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create product")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("product created",
		slog.Int64("product_id", product.ID),
		slog.Bool("has_description", product.Description != ""))
	shared.RespondWithJSON(w, r, http.StatusCreated, product)
}

// UpdateProduct handles PATCH /products/{id}.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	product, err := h.catalog.UpdateProduct(r.Context(), id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update product")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}.
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete product")
		return
	}
	shared.RespondNoContent(w)
}

// UploadProductImage handles POST /products/{id}/image.
func (h *CatalogHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	body, contentType, ok := readImageUpload(w, r)
	if !ok {
		return
	}
	product, err := h.catalog.UploadProductImage(r.Context(), id, contentType, body)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to upload image")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, product)
}
