// Package analytics recomputes display values from raw records: stock status,
// balances and the dashboard KPIs. Nothing here is cached or written back.
package analytics

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/montanaflynn/stats"

	"mirror_shop/internal/models"
)

const DefaultLowStockThreshold = 5

// StockStatus derives the display status for a stock level.
func StockStatus(stock, threshold int) models.StockStatus {
	switch {
	case stock <= 0:
		return models.OutOfStock
	case stock <= threshold:
		return models.LowStock
	default:
		return models.InStock
	}
}

// ApplyStockStatus returns copies of products whose Status is replaced by the
// derived value. The input slice is left untouched.
func ApplyStockStatus(products []models.Product, threshold int) []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		p.Status = StockStatus(p.Stock, threshold)
		out[i] = p
	}
	return out
}

func BalanceDue(o models.Order) float64 {
	return o.BalanceDue()
}

type KPIOptions struct {
	// CalendarMonth limits RevenueMonth to orders dated in the month of now.
	// When false every non-cancelled order counts.
	CalendarMonth bool
}

// ComputeKPIs aggregates orders and products as of now.
func ComputeKPIs(orders []models.Order, products []models.Product, now time.Time, opts KPIOptions) models.KPI {
	today := now.Format("2006-01-02")

	var (
		todayPaid  []float64
		monthPaid  []float64
		totals     []float64
		balances   []float64
		activeJobs int
	)
	for _, o := range orders {
		if o.Type == models.CustomProject && o.Status != models.OrderInstalled && o.Status != models.OrderCancelled {
			activeJobs++
		}
		if o.Status == models.OrderCancelled {
			continue
		}

		date, ok := orderDate(o, now.Location())
		if ok && date.Format("2006-01-02") == today {
			todayPaid = append(todayPaid, o.PaidAmount)
		}
		if !opts.CalendarMonth || (ok && date.Year() == now.Year() && date.Month() == now.Month()) {
			monthPaid = append(monthPaid, o.PaidAmount)
		}
		totals = append(totals, o.TotalPrice)
		if due := o.BalanceDue(); due > 0 {
			balances = append(balances, due)
		}
	}

	kpi := models.KPI{
		RevenueToday:         sum(todayPaid),
		RevenueMonth:         sum(monthPaid),
		TotalOrders:          len(orders),
		ActiveCustomProjects: activeJobs,
		OutstandingBalance:   sum(balances),
	}
	if len(totals) > 0 {
		kpi.AverageOrderValue, _ = stats.Mean(totals)
	}
	for _, p := range products {
		if p.Stock > 0 {
			kpi.InStock++
		} else {
			kpi.OutOfStock++
		}
	}
	return kpi
}

func orderDate(o models.Order, loc *time.Location) (time.Time, bool) {
	if o.Date == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(o.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total, _ := stats.Sum(values)
	return total
}
