package domain

import (
	"strings"
	"time"
)

// DefaultOrderStatus is the status of a newly placed order.
const DefaultOrderStatus = "formed"

// Order is a purchase placed by a user.
type Order struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderPatch carries the fields of a create or partial update request.
type OrderPatch struct {
	UserID *int64
	Status *string
	Price  *int64
}

// NewOrder creates an order with defaults and the given fields applied.
func NewOrder(patch OrderPatch, now time.Time) (*Order, error) {
	o := &Order{Status: DefaultOrderStatus, CreatedAt: now.UTC()}
	o.Apply(patch, now)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Apply copies every non-nil field of patch onto the order.
func (o *Order) Apply(patch OrderPatch, now time.Time) {
	if patch.UserID != nil {
		o.UserID = *patch.UserID
	}
	if patch.Status != nil {
		o.Status = strings.TrimSpace(*patch.Status)
	}
	if patch.Price != nil {
		o.Price = *patch.Price
	}
	o.UpdatedAt = now.UTC()
}

// Validate checks if the Order has valid data.
func (o *Order) Validate() error {
	switch {
	case o.UserID <= 0:
		return NewValidationError("user_id", "is required")
	case o.Status == "":
		return NewValidationError("status", "cannot be empty")
	case tooLong(o.Status, 255):
		return NewValidationError("status", "must be at most 255 characters long")
	case o.Price < 0:
		return NewValidationError("price", "cannot be negative")
	}
	return nil
}

// OrderedProduct is one line of an order.
type OrderedProduct struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	ProductID int64     `json:"product_id"`
	Amount    int       `json:"amount"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderedProductPatch carries the fields of a create or partial update request.
type OrderedProductPatch struct {
	OrderID   *int64
	ProductID *int64
	Amount    *int
	Price     *int64
}

// NewOrderedProduct creates an order line with defaults and the given fields applied.
func NewOrderedProduct(patch OrderedProductPatch, now time.Time) (*OrderedProduct, error) {
	op := &OrderedProduct{Amount: 1, CreatedAt: now.UTC()}
	op.Apply(patch, now)
	if err := op.Validate(); err != nil {
		return nil, err
	}
	return op, nil
}

// Apply copies every non-nil field of patch onto the order line.
func (op *OrderedProduct) Apply(patch OrderedProductPatch, now time.Time) {
	if patch.OrderID != nil {
		op.OrderID = *patch.OrderID
	}
	if patch.ProductID != nil {
		op.ProductID = *patch.ProductID
	}
	if patch.Amount != nil {
		op.Amount = *patch.Amount
	}
	if patch.Price != nil {
		op.Price = *patch.Price
	}
	op.UpdatedAt = now.UTC()
}

// Validate checks if the OrderedProduct has valid data.
func (op *OrderedProduct) Validate() error {
	switch {
	case op.OrderID <= 0:
		return NewValidationError("order_id", "is required")
	case op.ProductID <= 0:
		return NewValidationError("product_id", "is required")
	case op.Amount < 1:
		return NewValidationError("amount", "must be at least 1")
	case op.Price < 0:
		return NewValidationError("price", "cannot be negative")
	}
	return nil
}
