package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalanceDue(t *testing.T) {
	o := Order{TotalPrice: 12000, PaidAmount: 6000}
	assert.Equal(t, 6000.0, o.BalanceDue())

	o.PaidAmount = 12000
	assert.Equal(t, 0.0, o.BalanceDue())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderNew, OrderInProduction, true},
		{OrderNew, OrderCancelled, true},
		{OrderNew, OrderCompleted, true},
		{OrderInProduction, OrderReady, true},
		{OrderInProduction, OrderNew, false},
		{OrderReady, OrderInstalled, true},
		{OrderInstalled, OrderCompleted, true},
		{OrderInstalled, OrderCancelled, true},
		{OrderCompleted, OrderCancelled, false},
		{OrderCancelled, OrderNew, false},
		{OrderCompleted, OrderCompleted, true},
		{OrderNew, OrderStatus("Shipped"), false},
		{OrderStatus(""), OrderNew, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCancelledReachableFromEveryNonTerminalStatus(t *testing.T) {
	for s := range orderTransitions {
		if s.IsTerminal() {
			assert.Empty(t, NextStatuses(s), s)
			continue
		}
		assert.True(t, CanTransition(s, OrderCancelled), s)
	}
}

func TestCustomerAccumulate(t *testing.T) {
	c := Customer{ID: "c1", Name: "Amine Benali", Phone: "+212 661-123456", City: "Casablanca", TotalSpent: 4500, OrderCount: 2}
	c.Accumulate(Customer{ID: "c-new", Phone: "+212 661-123456", Address: "3 Rue Atlas", TotalSpent: 1500, OrderCount: 1})

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, 6000.0, c.TotalSpent)
	assert.Equal(t, 3, c.OrderCount)
	assert.Equal(t, "Amine Benali", c.Name)
	assert.Equal(t, "3 Rue Atlas", c.Address)
	assert.Equal(t, "Casablanca", c.City)
}

func TestCustomerAccumulateSkipsAppliedOrder(t *testing.T) {
	c := Customer{ID: "c1", Phone: "+212 661-123456", TotalSpent: 4500, OrderCount: 2}
	delta := Customer{Phone: "+212 661-123456", TotalSpent: 1500, OrderCount: 1, SourceOrderID: "ord-7"}

	assert.True(t, c.Accumulate(delta))
	assert.False(t, c.Accumulate(delta))
	assert.Equal(t, 6000.0, c.TotalSpent)
	assert.Equal(t, 3, c.OrderCount)
	assert.Equal(t, []string{"ord-7"}, c.AppliedOrderIDs)

	// Records without a source order always count.
	assert.True(t, c.Accumulate(Customer{TotalSpent: 100, OrderCount: 1}))
	assert.Equal(t, 4, c.OrderCount)
}

func TestCustomerRecordSource(t *testing.T) {
	c := Customer{ID: "c-9", SourceOrderID: "ord-9"}
	c.RecordSource()
	assert.Empty(t, c.SourceOrderID)
	assert.True(t, c.HasApplied("ord-9"))
	assert.False(t, c.Accumulate(Customer{TotalSpent: 50, OrderCount: 1, SourceOrderID: "ord-9"}))
}
