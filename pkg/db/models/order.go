package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/storelinehq/storeline-backend/pkg/enums"
)

// Order is a placed order owned by a customer.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	Customer   *Customer         `gorm:"foreignKey:CustomerID"`
	Status     enums.OrderStatus `gorm:"column:status;not null;default:'unfulfilled'"`
	Items      []OrderItem       `gorm:"foreignKey:OrderID"`
	PlacedAt   time.Time         `gorm:"column:placed_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
