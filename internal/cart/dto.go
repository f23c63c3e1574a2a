package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemInput captures the payload for adding a product to a cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// UpdateItemInput captures the payload for changing a cart line quantity.
type UpdateItemInput struct {
	Quantity int
}

// CartItemDTO is one cart line returned to clients.
type CartItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartDTO is the cart shape returned to clients.
type CartDTO struct {
	ID         uuid.UUID       `json:"id"`
	Items      []CartItemDTO   `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}
