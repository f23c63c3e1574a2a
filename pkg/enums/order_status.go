package enums

import "fmt"

// OrderStatus tracks an order through its fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusUnfulfilled OrderStatus = "unfulfilled"
	OrderStatusProcessing  OrderStatus = "processing"
	OrderStatusCompleted   OrderStatus = "completed"
	OrderStatusCanceled    OrderStatus = "canceled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusUnfulfilled,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCanceled,
}

// Transitions only move forward. Completed and canceled are terminal.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusUnfulfilled: {OrderStatusProcessing, OrderStatusCompleted, OrderStatusCanceled},
	OrderStatusProcessing:  {OrderStatusCompleted, OrderStatusCanceled},
	OrderStatusCompleted:   {},
	OrderStatusCanceled:    {},
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (o OrderStatus) IsTerminal() bool {
	return len(orderStatusTransitions[o]) == 0 && o.IsValid()
}

// CanTransition reports whether moving from the current status to next is allowed.
func (o OrderStatus) CanTransition(next OrderStatus) bool {
	for _, candidate := range orderStatusTransitions[o] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
