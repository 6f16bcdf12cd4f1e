// Package testdb opens a PostgreSQL database for integration tests, applies
// the embedded goose migrations once per process and isolates each test in
// a transaction that is rolled back when the test ends.
//
// The helpers are compiled only with the integration build tag:
//
//	STOREFRONT_TEST_DATABASE_URL=postgres://... go test -tags=integration ./...
//
// Tests are skipped when no database URL is configured.
package testdb
