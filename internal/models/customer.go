package models

import "time"

// Customer is keyed naturally by Phone. TotalSpent and OrderCount only grow.
type Customer struct {
	ID         string  `json:"id" gorm:"primaryKey"`
	Name       string  `json:"name" gorm:"not null"`
	Phone      string  `json:"phone" gorm:"index"`
	Email      string  `json:"email,omitempty"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	TotalSpent float64 `json:"totalSpent"`
	OrderCount int     `json:"orderCount"`

	// SourceOrderID names the order an incoming record was built for. It
	// travels with writes only and is never stored.
	SourceOrderID   string    `json:"sourceOrderId,omitempty" gorm:"-"`
	AppliedOrderIDs []string  `json:"-" gorm:"serializer:json;type:text"`
	CreatedAt       time.Time `json:"-"`
}

// Accumulate folds an incoming per-order customer record into c. Counters are
// added, contact fields are replaced only when the incoming value is set. A
// record whose source order was already folded in leaves c unchanged and
// Accumulate returns false.
func (c *Customer) Accumulate(in Customer) bool {
	if in.SourceOrderID != "" {
		if c.HasApplied(in.SourceOrderID) {
			return false
		}
		c.AppliedOrderIDs = append(c.AppliedOrderIDs, in.SourceOrderID)
	}
	c.TotalSpent += in.TotalSpent
	c.OrderCount += in.OrderCount
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Email != "" {
		c.Email = in.Email
	}
	if in.Address != "" {
		c.Address = in.Address
	}
	if in.City != "" {
		c.City = in.City
	}
	return true
}

// RecordSource marks the source order of a newly stored record as applied.
func (c *Customer) RecordSource() {
	if c.SourceOrderID != "" && !c.HasApplied(c.SourceOrderID) {
		c.AppliedOrderIDs = append(c.AppliedOrderIDs, c.SourceOrderID)
	}
	c.SourceOrderID = ""
}

func (c *Customer) HasApplied(orderID string) bool {
	for _, id := range c.AppliedOrderIDs {
		if id == orderID {
			return true
		}
	}
	return false
}
