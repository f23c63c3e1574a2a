package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/storelinehq/storeline-backend/pkg/enums"
	"github.com/storelinehq/storeline-backend/pkg/pagination"
)

// UpdateProfileInput captures the fields a customer may change on their profile.
type UpdateProfileInput struct {
	Phone     *string
	BirthDate *time.Time
}

// UpdateCustomerInput captures the admin-editable customer fields.
type UpdateCustomerInput struct {
	Phone      *string
	BirthDate  *time.Time
	Membership *enums.MembershipTier
}

// ListCustomersInput paginates the admin customer directory.
type ListCustomersInput struct {
	Pagination pagination.Params
}

// CustomerDTO is the customer profile shape returned to clients.
type CustomerDTO struct {
	ID         uuid.UUID            `json:"id"`
	UserID     uuid.UUID            `json:"user_id"`
	Email      string               `json:"email"`
	FirstName  string               `json:"first_name"`
	LastName   string               `json:"last_name"`
	Phone      *string              `json:"phone,omitempty"`
	BirthDate  *time.Time           `json:"birth_date,omitempty"`
	Membership enums.MembershipTier `json:"membership"`
	CreatedAt  time.Time            `json:"created_at"`
}

// CustomerList wraps the paginated customers plus the next page cursor.
type CustomerList struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}
