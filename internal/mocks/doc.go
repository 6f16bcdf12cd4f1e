// Package mocks provides centralized mock implementations for testing.
//
// Store mocks keep their data in maps so services can be exercised without a
// database; every method can be overridden through a function field. TxDB is
// a *sql.DB whose transactions only count commits and rollbacks, so code
// built on store.RunInTransaction runs unchanged in unit tests.
//
// Usage:
//
//	users := mocks.NewMockUserStore()
//	users.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	    return nil, errors.New("connection refused")
//	}
package mocks
