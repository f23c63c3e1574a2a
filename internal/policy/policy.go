package policy

import "github.com/storelinehq/storeline-backend/pkg/enums"

// Action names a guarded operation on the platform.
type Action string

const (
	ActionManageCatalog   Action = "catalog.manage"
	ActionListCustomers   Action = "customers.list"
	ActionListAllOrders   Action = "orders.list_all"
	ActionUpdateOrder     Action = "orders.update"
	ActionDeleteOrder     Action = "orders.delete"
	ActionModerateComment Action = "comments.moderate"
)

var rolePermissions = map[enums.UserRole]map[Action]struct{}{
	enums.UserRoleAdmin: {
		ActionManageCatalog:   {},
		ActionListCustomers:   {},
		ActionListAllOrders:   {},
		ActionUpdateOrder:     {},
		ActionDeleteOrder:     {},
		ActionModerateComment: {},
	},
	enums.UserRoleCustomer: {},
}

// CanPerform reports whether the role is allowed to perform the action.
func CanPerform(role enums.UserRole, action Action) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, allowed := perms[action]
	return allowed
}
