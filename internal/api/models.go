package api

import (
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
// A staff flag in the payload is rejected as an unknown field.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Name     string `json:"name"     validate:"required,max=255"`
	Surname  string `json:"surname"  validate:"max=255"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for login and refresh.
type AuthResponse struct {
	// Token is the access token, also set as a cookie
	Token string `json:"token"`

	// RefreshToken is exchanged at /auth/refresh for a new pair
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the RFC 3339 expiry of Token
	ExpiresAt string `json:"expires_at"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// PasswordResetRequest starts the password reset flow.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyResetCodeRequest checks a mailed reset code.
type VerifyResetCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required,max=64"`
}

// ConfirmPasswordResetRequest sets the new password after verification.
type ConfirmPasswordResetRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// MessageResponse is returned by endpoints without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// VerifyResetCodeResponse reports the outcome of a code check.
type VerifyResetCodeResponse struct {
	Message         string `json:"message"`
	AlreadyVerified bool   `json:"already_verified"`
}

// CountResponse carries a single count.
type CountResponse struct {
	Count int `json:"count"`
}

// CategoryRequest is the body of category create and update. parent_id
// distinguishes absent from null; parent_name is an alternative to it.
type CategoryRequest struct {
	Name       *string           `json:"name"        validate:"omitempty,max=255"`
	ParentID   domain.OptionalID `json:"parent_id"`
	ParentName *string           `json:"parent_name" validate:"omitempty,max=255"`
	SortOrder  *int              `json:"sort_order"  validate:"omitempty,gte=0"`
	Image      *string           `json:"image"       validate:"omitempty,max=2048"`
}

func (req CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Patch: domain.CategoryPatch{
			Name:      req.Name,
			SortOrder: req.SortOrder,
			Image:     req.Image,
		},
		ParentID:   req.ParentID,
		ParentName: req.ParentName,
	}
}

// ProductRequest is the body of product create and update.
type ProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,max=255"`
	Brand       *string  `json:"brand"       validate:"omitempty,max=255"`
	CategoryID  *int64   `json:"category_id" validate:"omitempty,gt=0"`
	Price       *int64   `json:"price"       validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Count       *int     `json:"count"       validate:"omitempty,gte=0"`
	Rating      *float64 `json:"rating"      validate:"omitempty,gte=0,lte=5"`
	SortOrder   *int     `json:"sort_order"  validate:"omitempty,gte=0"`
	Image       *string  `json:"image"       validate:"omitempty,max=2048"`
}

func (req ProductRequest) toPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        req.Name,
		Brand:       req.Brand,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Description: req.Description,
		Count:       req.Count,
		Rating:      req.Rating,
		SortOrder:   req.SortOrder,
		Image:       req.Image,
	}
}

// BulkProductsRequest selects products by id.
type BulkProductsRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,max=500,dive,gt=0"`
}

// StorageRequest is the body of storage create and update.
type StorageRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=255"`
	Location    *string `json:"location"    validate:"omitempty,max=255"`
	Coordinates *string `json:"coordinates" validate:"omitempty,max=255"`
}

func (req StorageRequest) toPatch() domain.StoragePatch {
	return domain.StoragePatch{Name: req.Name, Location: req.Location, Coordinates: req.Coordinates}
}

// ProductStorageRequest is the body of product-storage create and update.
type ProductStorageRequest struct {
	StorageID    *int64 `json:"storage_id"    validate:"omitempty,gt=0"`
	ProductID    *int64 `json:"product_id"    validate:"omitempty,gt=0"`
	CountProduct *int   `json:"count_product" validate:"omitempty,gte=0"`
}

func (req ProductStorageRequest) toPatch() domain.ProductStoragePatch {
	return domain.ProductStoragePatch{
		StorageID:    req.StorageID,
		ProductID:    req.ProductID,
		CountProduct: req.CountProduct,
	}
}

// OrderRequest is the body of order create and update.
type OrderRequest struct {
	UserID *int64  `json:"user_id" validate:"omitempty,gt=0"`
	Status *string `json:"status"  validate:"omitempty,max=255"`
	Price  *int64  `json:"price"   validate:"omitempty,gte=0"`
}

func (req OrderRequest) toPatch() domain.OrderPatch {
	return domain.OrderPatch{UserID: req.UserID, Status: req.Status, Price: req.Price}
}

// OrderedProductRequest is the body of ordered-product create and update.
type OrderedProductRequest struct {
	OrderID   *int64 `json:"order_id"   validate:"omitempty,gt=0"`
	ProductID *int64 `json:"product_id" validate:"omitempty,gt=0"`
	Amount    *int   `json:"amount"     validate:"omitempty,gte=1"`
	Price     *int64 `json:"price"      validate:"omitempty,gte=0"`
}

func (req OrderedProductRequest) toPatch() domain.OrderedProductPatch {
	return domain.OrderedProductPatch{
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
		Amount:    req.Amount,
		Price:     req.Price,
	}
}

// BannerRequest is the body of banner create and update. A products list
// replaces the banner's whole product set.
type BannerRequest struct {
	Header      *string  `json:"header"      validate:"omitempty,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=100"`
	IsShow      *bool    `json:"is_show"`
	Image       *string  `json:"image"       validate:"omitempty,max=2048"`
	Products    *[]int64 `json:"products"    validate:"omitempty,dive,gt=0"`
}

func (req BannerRequest) toPatch() domain.BannerPatch {
	return domain.BannerPatch{
		Header:      req.Header,
		Description: req.Description,
		IsShow:      req.IsShow,
		Image:       req.Image,
		ProductIDs:  req.Products,
	}
}
