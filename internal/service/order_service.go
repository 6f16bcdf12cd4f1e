package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// OrderService manages orders and their lines.
type OrderService interface {
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListUserOrders(ctx context.Context, userID int64) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, patch domain.OrderPatch) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error

	ListOrderedProducts(ctx context.Context) ([]*domain.OrderedProduct, error)
	ListOrderLines(ctx context.Context, orderID int64) ([]*domain.OrderedProduct, error)
	GetOrderLine(ctx context.Context, orderID, productID int64) (*domain.OrderedProduct, error)
	GetOrderedProduct(ctx context.Context, id int64) (*domain.OrderedProduct, error)
	CreateOrderedProduct(ctx context.Context, patch domain.OrderedProductPatch) (*domain.OrderedProduct, error)
	UpdateOrderedProduct(
		ctx context.Context,
		id int64,
		patch domain.OrderedProductPatch,
	) (*domain.OrderedProduct, error)
	DeleteOrderedProduct(ctx context.Context, id int64) error
}

// OrderServiceImpl implements OrderService.
type OrderServiceImpl struct {
	users  store.UserStore
	orders store.OrderStore
	lines  store.OrderedProductStore
	logger *slog.Logger
	now    func() time.Time
}

var _ OrderService = (*OrderServiceImpl)(nil)

// NewOrderService creates an OrderService.
func NewOrderService(
	users store.UserStore,
	orders store.OrderStore,
	lines store.OrderedProductStore,
	logger *slog.Logger,
) *OrderServiceImpl {
	return &OrderServiceImpl{
		users:  users,
		orders: orders,
		lines:  lines,
		logger: logger.With("component", "order_service"),
		now:    time.Now,
	}
}

// ListOrders implements OrderService.
func (s *OrderServiceImpl) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

// ListUserOrders implements OrderService.
func (s *OrderServiceImpl) ListUserOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.orders.ListByUser(ctx, userID)
}

// GetOrder implements OrderService.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// CreateOrder implements OrderService.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, patch domain.OrderPatch) (*domain.Order, error) {
	order, err := domain.NewOrder(patch, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "order created",
		"order_id", order.ID,
		"user_id", order.UserID)
	return order, nil
}

// UpdateOrder implements OrderService.
func (s *OrderServiceImpl) UpdateOrder(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Apply(patch, s.now())
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return order, nil
}

// DeleteOrder implements OrderService.
func (s *OrderServiceImpl) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// ListOrderedProducts implements OrderService.
func (s *OrderServiceImpl) ListOrderedProducts(ctx context.Context) ([]*domain.OrderedProduct, error) {
	return s.lines.List(ctx)
}

// ListOrderLines implements OrderService.
func (s *OrderServiceImpl) ListOrderLines(ctx context.Context, orderID int64) ([]*domain.OrderedProduct, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.lines.ListByOrder(ctx, orderID)
}

// GetOrderLine implements OrderService.
func (s *OrderServiceImpl) GetOrderLine(ctx context.Context, orderID, productID int64) (*domain.OrderedProduct, error) {
	return s.lines.GetByOrderAndProduct(ctx, orderID, productID)
}

// GetOrderedProduct implements OrderService.
func (s *OrderServiceImpl) GetOrderedProduct(ctx context.Context, id int64) (*domain.OrderedProduct, error) {
	return s.lines.GetByID(ctx, id)
}

// CreateOrderedProduct implements OrderService.
func (s *OrderServiceImpl) CreateOrderedProduct(
	ctx context.Context,
	patch domain.OrderedProductPatch,
) (*domain.OrderedProduct, error) {
	line, err := domain.NewOrderedProduct(patch, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.lines.Create(ctx, line); err != nil {
		return nil, fmt.Errorf("failed to create ordered product: %w", err)
	}
	return line, nil
}

// UpdateOrderedProduct implements OrderService.
func (s *OrderServiceImpl) UpdateOrderedProduct(
	ctx context.Context,
	id int64,
	patch domain.OrderedProductPatch,
) (*domain.OrderedProduct, error) {
	line, err := s.lines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	line.Apply(patch, s.now())
	if err := line.Validate(); err != nil {
		return nil, err
	}
	if err := s.lines.Update(ctx, line); err != nil {
		return nil, fmt.Errorf("failed to update ordered product: %w", err)
	}
	return line, nil
}

// DeleteOrderedProduct implements OrderService.
func (s *OrderServiceImpl) DeleteOrderedProduct(ctx context.Context, id int64) error {
	if err := s.lines.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete ordered product: %w", err)
	}
	return nil
}
