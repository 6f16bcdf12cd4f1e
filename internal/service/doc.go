// Package service contains the storefront use cases. It coordinates domain
// entities and the store interfaces from internal/store.
//
// Key components:
//
// 1. Account management:
//   - AccountService covers registration, token issue and refresh, logout
//     and the three-step password reset flow
//
// 2. Catalog and inventory:
//   - CatalogService manages the category tree and products, including
//     cycle-free reparenting and generated product descriptions
//   - InventoryService manages storages and the stock held in each
//
// 3. Orders and banners:
//   - OrderService manages orders and their lines
//   - BannerService manages banners and their product sets
//
// Operations that touch more than one row run in a transaction through
// store.RunInTransaction. Unexpected failures are wrapped in ServiceError;
// domain and store sentinels pass through so the API layer can map them.
package service
