// Package domain defines the core business entities of the storefront: users
// and their password reset lifecycle, the category tree, products, storages,
// orders and banners. Entities validate themselves; persistence lives in the
// store package.
package domain
