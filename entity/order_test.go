package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransition(OrderStatusProcessing))
	assert.True(t, OrderStatusPending.CanTransition(OrderStatusCancelled))
	assert.False(t, OrderStatusPending.CanTransition(OrderStatusCompleted), "pending cannot jump to completed")

	assert.True(t, OrderStatusConfirmed.CanTransition(OrderStatusCompleted))
	assert.True(t, OrderStatusConfirmed.CanTransition(OrderStatusDelivering))
	assert.False(t, OrderStatusDelivering.CanTransition(OrderStatusPending), "no going back")
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.Empty(t, OrderStatusCompleted.NextStatuses())

	assert.False(t, OrderStatusPending.IsTerminal())
	assert.NotEmpty(t, OrderStatusPending.NextStatuses())

	assert.False(t, OrderStatusCompleted.CanTransition(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransition(OrderStatusPending))
}

func TestParseOrderStatus(t *testing.T) {
	got, ok := ParseOrderStatus("delivering")
	require.True(t, ok)
	assert.Equal(t, OrderStatusDelivering, got)

	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)
}

func TestParseDeliveryAndPayment(t *testing.T) {
	method, ok := ParseDeliveryMethod("pickup")
	require.True(t, ok)
	assert.Equal(t, DeliveryPickup, method)

	_, ok = ParseDeliveryMethod("drone")
	assert.False(t, ok)

	payment, ok := ParsePaymentMethod("stars")
	require.True(t, ok)
	assert.Equal(t, PaymentStars, payment)

	_, ok = ParsePaymentMethod("cash")
	assert.False(t, ok)
}

func TestValidRating(t *testing.T) {
	assert.False(t, ValidRating(0))
	assert.True(t, ValidRating(1))
	assert.True(t, ValidRating(5))
	assert.False(t, ValidRating(6))
}
