package models

// KPI holds the dashboard aggregates. Values are recomputed from raw records
// and are never persisted.
type KPI struct {
	RevenueToday         float64 `json:"revenueToday"`
	RevenueMonth         float64 `json:"revenueMonth"`
	TotalOrders          int     `json:"totalOrders"`
	ActiveCustomProjects int     `json:"activeCustomProjects"`
	InStock              int     `json:"inStock"`
	OutOfStock           int     `json:"outOfStock"`
	AverageOrderValue    float64 `json:"averageOrderValue"`
	OutstandingBalance   float64 `json:"outstandingBalance"`
}
