package models

import "time"

type Order struct {
	ID            string              `json:"id" gorm:"primaryKey"`
	CustomerID    string              `json:"customerId" gorm:"index"`
	CustomerName  string              `json:"customerName"` // denormalized for display
	Type          OrderType           `json:"type" gorm:"size:32"`
	Date          string              `json:"date" gorm:"index"`
	TotalPrice    float64             `json:"totalPrice"`
	PaidAmount    float64             `json:"paidAmount"`
	Status        OrderStatus         `json:"status" gorm:"size:32;default:'New'"`
	PaymentMethod PaymentMethod       `json:"paymentMethod" gorm:"size:16"`
	Items         []Product           `json:"items,omitempty" gorm:"serializer:json"`
	CustomDetails *CustomOrderDetails `json:"customDetails,omitempty" gorm:"serializer:json"`
	CreatedAt     time.Time           `json:"-"`
}

type CustomOrderDetails struct {
	Width                  float64     `json:"width"`
	Height                 float64     `json:"height"`
	Shape                  MirrorShape `json:"shape"`
	FrameType              string      `json:"frameType"`
	FrameColor             string      `json:"frameColor"`
	IsInstallationRequired bool        `json:"isInstallationRequired"`
}

// BalanceDue is always derived from the price fields and never stored.
func (o Order) BalanceDue() float64 {
	return o.TotalPrice - o.PaidAmount
}

type OrderType string

const (
	StandardOrder OrderType = "Standard"
	CustomProject OrderType = "Custom Project"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Cash"
	PaymentTransfer PaymentMethod = "Transfer"
	PaymentCard     PaymentMethod = "Card"
)

type OrderStatus string

const (
	OrderNew          OrderStatus = "New"
	OrderInProduction OrderStatus = "In Production"
	OrderReady        OrderStatus = "Ready"
	OrderInstalled    OrderStatus = "Installed"
	OrderCompleted    OrderStatus = "Completed"
	OrderCancelled    OrderStatus = "Cancelled"
)

// orderTransitions lists the statuses reachable from each non-terminal status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderNew:          {OrderInProduction, OrderReady, OrderCompleted, OrderCancelled},
	OrderInProduction: {OrderReady, OrderCancelled},
	OrderReady:        {OrderInstalled, OrderCompleted, OrderCancelled},
	OrderInstalled:    {OrderCompleted, OrderCancelled},
	OrderCompleted:    nil,
	OrderCancelled:    nil,
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// CanTransition reports whether an order may move from one status to another.
// Re-applying the current status is accepted as a no-op.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses an order in s may move to.
func NextStatuses(s OrderStatus) []OrderStatus {
	next := orderTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}
