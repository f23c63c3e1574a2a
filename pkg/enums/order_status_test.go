package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusUnfulfilled.CanTransition(OrderStatusProcessing))
	assert.True(t, OrderStatusUnfulfilled.CanTransition(OrderStatusCompleted))
	assert.True(t, OrderStatusUnfulfilled.CanTransition(OrderStatusCanceled))
	assert.True(t, OrderStatusProcessing.CanTransition(OrderStatusCompleted))
	assert.True(t, OrderStatusProcessing.CanTransition(OrderStatusCanceled))

	assert.False(t, OrderStatusProcessing.CanTransition(OrderStatusUnfulfilled))
	assert.False(t, OrderStatusCompleted.CanTransition(OrderStatusCanceled))
	assert.False(t, OrderStatusCanceled.CanTransition(OrderStatusProcessing))
	assert.False(t, OrderStatusCompleted.CanTransition(OrderStatusCompleted))
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, OrderStatusUnfulfilled.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCanceled.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("processing")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusProcessing, status)

	_, err = ParseOrderStatus("shipped")
	require.Error(t, err)
}

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("admin")
	require.NoError(t, err)
	assert.Equal(t, UserRoleAdmin, role)

	_, err = ParseUserRole("superuser")
	require.Error(t, err)
}

func TestParseMembershipTier(t *testing.T) {
	tier, err := ParseMembershipTier("gold")
	require.NoError(t, err)
	assert.Equal(t, MembershipTierGold, tier)

	_, err = ParseMembershipTier("platinum")
	require.Error(t, err)
}
