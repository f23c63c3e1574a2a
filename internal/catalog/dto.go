package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelinehq/storeline-backend/pkg/pagination"
)

// CreateCategoryInput captures the payload for a new category.
type CreateCategoryInput struct {
	Title             string
	FeaturedProductID *uuid.UUID
}

// UpdateCategoryInput captures the mutable category fields.
type UpdateCategoryInput struct {
	Title             *string
	FeaturedProductID *uuid.UUID
}

// CategoryDTO is the category shape returned to clients.
type CategoryDTO struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	FeaturedProductID *uuid.UUID `json:"featured_product_id,omitempty"`
	ProductCount      int64      `json:"product_count"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CreateProductInput captures the payload for a new product.
type CreateProductInput struct {
	Name        string
	Description *string
	UnitPrice   decimal.Decimal
	Inventory   int
	CategoryID  uuid.UUID
}

// UpdateProductInput captures the mutable product fields.
type UpdateProductInput struct {
	Name        *string
	Description *string
	UnitPrice   *decimal.Decimal
	Inventory   *int
	CategoryID  *uuid.UUID
}

// ProductFilters describe the supported filter knobs for the browse endpoint.
type ProductFilters struct {
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	Name        string
	CategoryID  *uuid.UUID
	InventoryGT *int
	InventoryLT *int
	OrderBy     string
}

// ListProductsInput captures the inputs needed to paginate and filter products.
type ListProductsInput struct {
	Filters    ProductFilters
	Pagination pagination.Params
}

// ProductDTO is the product shape returned to clients.
type ProductDTO struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Slug              string          `json:"slug"`
	Description       *string         `json:"description,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	UnitPriceAfterTax decimal.Decimal `json:"unit_price_after_tax"`
	Inventory         int             `json:"inventory"`
	CategoryID        uuid.UUID       `json:"category_id"`
	CategoryTitle     string          `json:"category_title,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ProductList wraps the paginated products plus the next page cursor.
type ProductList struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
