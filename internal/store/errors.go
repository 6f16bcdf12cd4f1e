package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants such as ErrUserNotFound wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity violates a check or
	// not-null constraint. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidReference is returned when a foreign key points at a row
	// that does not exist.
	ErrInvalidReference = errors.New("referenced entity does not exist")

	// ErrTransactionFailed is returned when a database transaction fails
	// to begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	ErrUserNotFound           = fmt.Errorf("%w: user", ErrNotFound)
	ErrCategoryNotFound       = fmt.Errorf("%w: category", ErrNotFound)
	ErrProductNotFound        = fmt.Errorf("%w: product", ErrNotFound)
	ErrStorageNotFound        = fmt.Errorf("%w: storage", ErrNotFound)
	ErrProductStorageNotFound = fmt.Errorf("%w: product storage", ErrNotFound)
	ErrOrderNotFound          = fmt.Errorf("%w: order", ErrNotFound)
	ErrOrderedProductNotFound = fmt.Errorf("%w: ordered product", ErrNotFound)
	ErrBannerNotFound         = fmt.Errorf("%w: banner", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrCategoryNameExists indicates that a category with the given name already exists.
	ErrCategoryNameExists = fmt.Errorf("%w: category name", ErrDuplicate)

	// ErrProductNameExists indicates that a product with the given name already exists.
	ErrProductNameExists = fmt.Errorf("%w: product name", ErrDuplicate)

	// ErrProductStorageExists indicates the product already has a stock
	// record in that storage.
	ErrProductStorageExists = fmt.Errorf("%w: product storage pair", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
