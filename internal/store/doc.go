// Package store defines the persistence interfaces for every storefront
// entity, the errors they return and the transaction helper shared by their
// implementations.
package store
