package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers groups the resource handlers mounted under /api.
type Handlers struct {
	Auth      *AuthHandler
	Catalog   *CatalogHandler
	Inventory *InventoryHandler
	Orders    *OrderHandler
	Banners   *BannerHandler
}

// Mount registers every API route on r. authenticate guards all routes
// except registration, login, refresh and the password reset flow.
func (h Handlers) Mount(r chi.Router, authenticate func(http.Handler) http.Handler) {
	// Public
	r.Post("/auth/register", h.Auth.Register)
	r.Post("/auth/login", h.Auth.Login)
	r.Post("/auth/refresh", h.Auth.Refresh)
	r.Post("/auth/password-reset", h.Auth.RequestPasswordReset)
	r.Post("/auth/password-reset/verify", h.Auth.VerifyResetCode)
	r.Post("/auth/password-reset/confirm", h.Auth.ConfirmPasswordReset)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/auth/logout", h.Auth.Logout)
		r.Get("/user", h.Auth.CurrentUser)
		r.Get("/users", h.Auth.ListUsers)
		r.Get("/users/{id}/orders", h.Orders.ListUserOrders)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Catalog.ListCategories)
			r.Post("/", h.Catalog.CreateCategory)
			r.Get("/{id}", h.Catalog.GetCategory)
			r.Patch("/{id}", h.Catalog.UpdateCategory)
			r.Delete("/{id}", h.Catalog.DeleteCategory)
			r.Get("/{id}/children", h.Catalog.ListChildren)
			r.Get("/{id}/children/count", h.Catalog.CountChildren)
			r.Post("/{id}/image", h.Catalog.UploadCategoryImage)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Catalog.ListProducts)
			r.Post("/", h.Catalog.CreateProduct)
			r.Post("/bulk", h.Catalog.GetProducts)
			r.Get("/{id}", h.Catalog.GetProduct)
			r.Patch("/{id}", h.Catalog.UpdateProduct)
			r.Delete("/{id}", h.Catalog.DeleteProduct)
			r.Post("/{id}/image", h.Catalog.UploadProductImage)
		})

		r.Route("/storages", func(r chi.Router) {
			r.Get("/", h.Inventory.ListStorages)
			r.Post("/", h.Inventory.CreateStorage)
			r.Get("/{id}", h.Inventory.GetStorage)
			r.Patch("/{id}", h.Inventory.UpdateStorage)
			r.Delete("/{id}", h.Inventory.DeleteStorage)
			r.Get("/{id}/products", h.Inventory.ListStorageProducts)
		})

		r.Route("/product-storages", func(r chi.Router) {
			r.Get("/", h.Inventory.ListProductStorages)
			r.Post("/", h.Inventory.CreateProductStorage)
			r.Get("/{id}", h.Inventory.GetProductStorage)
			r.Patch("/{id}", h.Inventory.UpdateProductStorage)
			r.Delete("/{id}", h.Inventory.DeleteProductStorage)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.ListOrders)
			r.Post("/", h.Orders.CreateOrder)
			r.Get("/{id}", h.Orders.GetOrder)
			r.Patch("/{id}", h.Orders.UpdateOrder)
			r.Delete("/{id}", h.Orders.DeleteOrder)
			r.Get("/{id}/products", h.Orders.ListOrderLines)
			r.Get("/{id}/products/{productID}", h.Orders.GetOrderLine)
		})

		r.Route("/ordered-products", func(r chi.Router) {
			r.Get("/", h.Orders.ListOrderedProducts)
			r.Post("/", h.Orders.CreateOrderedProduct)
			r.Get("/{id}", h.Orders.GetOrderedProduct)
			r.Patch("/{id}", h.Orders.UpdateOrderedProduct)
			r.Delete("/{id}", h.Orders.DeleteOrderedProduct)
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", h.Banners.ListBanners)
			r.Post("/", h.Banners.CreateBanner)
			r.Get("/{id}", h.Banners.GetBanner)
			r.Patch("/{id}", h.Banners.UpdateBanner)
			r.Delete("/{id}", h.Banners.DeleteBanner)
			r.Post("/{id}/image", h.Banners.UploadBannerImage)
		})
	})
}
