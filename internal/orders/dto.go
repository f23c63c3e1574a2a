package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelinehq/storeline-backend/pkg/enums"
	"github.com/storelinehq/storeline-backend/pkg/pagination"
)

// Actor identifies who is performing an order operation.
type Actor struct {
	UserID     uuid.UUID
	CustomerID *uuid.UUID
	Role       enums.UserRole
}

// CheckoutInput converts a cart into an order.
type CheckoutInput struct {
	CartID uuid.UUID
}

// ListOrdersInput captures listing filters for order history.
type ListOrdersInput struct {
	Pagination pagination.Params
}

// UpdateOrderInput captures the mutable fields of an order.
type UpdateOrderInput struct {
	Status enums.OrderStatus
}

// OrderItemDTO is a single order line with its captured price.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderCustomerDTO summarizes the purchasing customer on back office views.
type OrderCustomerDTO struct {
	ID         uuid.UUID            `json:"id"`
	Email      string               `json:"email"`
	FirstName  string               `json:"first_name"`
	LastName   string               `json:"last_name"`
	Membership enums.MembershipTier `json:"membership"`
}

// OrderDTO is the outward-facing order shape. Customer is only populated on
// admin views.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	CustomerID uuid.UUID         `json:"customer_id"`
	Customer   *OrderCustomerDTO `json:"customer,omitempty"`
	Status     enums.OrderStatus `json:"status"`
	Items      []OrderItemDTO    `json:"items"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	PlacedAt   time.Time         `json:"placed_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// OrderList is a cursor page of orders.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
