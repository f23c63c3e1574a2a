package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storelinehq/storeline-backend/pkg/enums"
)

func TestCanPerform(t *testing.T) {
	assert.True(t, CanPerform(enums.UserRoleAdmin, ActionManageCatalog))
	assert.True(t, CanPerform(enums.UserRoleAdmin, ActionDeleteOrder))

	assert.False(t, CanPerform(enums.UserRoleCustomer, ActionManageCatalog))
	assert.False(t, CanPerform(enums.UserRoleCustomer, ActionListCustomers))
	assert.False(t, CanPerform(enums.UserRole("ghost"), ActionManageCatalog))
}
