package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/storelinehq/storeline-backend/pkg/enums"
)

// Customer is the storefront profile attached one-to-one to a User.
type Customer struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID            `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	User       *User                `gorm:"foreignKey:UserID"`
	Phone      *string              `gorm:"column:phone"`
	BirthDate  *time.Time           `gorm:"column:birth_date;type:date"`
	Membership enums.MembershipTier `gorm:"column:membership;not null;default:'bronze'"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
