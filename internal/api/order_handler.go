package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service"
)

// OrderHandler handles order and ordered-product requests.
type OrderHandler struct {
	orders service.OrderService
	logger *slog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders service.OrderService, logger *slog.Logger) *OrderHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for OrderHandler")
	}
	return &OrderHandler{
		orders: orders,
		logger: logger.With(slog.String("component", "order_handler")),
	}
}

// ListOrders handles GET /orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list orders")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, orders)
}

// ListUserOrders handles GET /users/{id}/orders.
func (h *OrderHandler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	orders, err := h.orders.ListUserOrders(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list user orders")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, orders)
}

// GetOrder handles GET /orders/{id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get order")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, order)
}

// CreateOrder handles POST /orders.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	order, err := h.orders.CreateOrder(r.Context(), req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create order")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, order)
}

// UpdateOrder handles PATCH /orders/{id}.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req OrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	order, err := h.orders.UpdateOrder(r.Context(), id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update order")
		return
	}
	if req.Status != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Info("order status changed",
			slog.Int64("order_id", order.ID),
			slog.String("status", order.Status))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/{id}.
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.orders.DeleteOrder(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete order")
		return
	}
	shared.RespondNoContent(w)
}

// ListOrderLines handles GET /orders/{id}/products.
func (h *OrderHandler) ListOrderLines(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	lines, err := h.orders.ListOrderLines(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list order products")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, lines)
}

// GetOrderLine handles GET /orders/{id}/products/{productID}.
func (h *OrderHandler) GetOrderLine(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	line, err := h.orders.GetOrderLine(r.Context(), orderID, productID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get order product")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, line)
}

// ListOrderedProducts handles GET /ordered-products.
func (h *OrderHandler) ListOrderedProducts(w http.ResponseWriter, r *http.Request) {
	lines, err := h.orders.ListOrderedProducts(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list ordered products")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, lines)
}

// GetOrderedProduct handles GET /ordered-products/{id}.
func (h *OrderHandler) GetOrderedProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	line, err := h.orders.GetOrderedProduct(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get ordered product")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, line)
}

// CreateOrderedProduct handles POST /ordered-products.
func (h *OrderHandler) CreateOrderedProduct(w http.ResponseWriter, r *http.Request) {
	var req OrderedProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	line, err := h.orders.CreateOrderedProduct(r.Context(), req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create ordered product")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, line)
}

// UpdateOrderedProduct handles PATCH /ordered-products/{id}.
func (h *OrderHandler) UpdateOrderedProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req OrderedProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	line, err := h.orders.UpdateOrderedProduct(r.Context(), id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update ordered product")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, line)
}

// DeleteOrderedProduct handles DELETE /ordered-products/{id}.
func (h *OrderHandler) DeleteOrderedProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.orders.DeleteOrderedProduct(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete ordered product")
		return
	}
	shared.RespondNoContent(w)
}
