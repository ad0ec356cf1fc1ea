// Package reports renders collections as CSV with derived columns filled in.
package reports

import (
	"io"

	"github.com/gocarina/gocsv"

	"mirror_shop/internal/analytics"
	"mirror_shop/internal/models"
)

type orderRow struct {
	ID            string  `csv:"id"`
	Date          string  `csv:"date"`
	CustomerID    string  `csv:"customer_id"`
	CustomerName  string  `csv:"customer_name"`
	Type          string  `csv:"type"`
	Status        string  `csv:"status"`
	PaymentMethod string  `csv:"payment_method"`
	TotalPrice    float64 `csv:"total_price"`
	PaidAmount    float64 `csv:"paid_amount"`
	BalanceDue    float64 `csv:"balance_due"`
}

type productRow struct {
	ID          string  `csv:"id"`
	Name        string  `csv:"name"`
	Type        string  `csv:"type"`
	Shape       string  `csv:"shape"`
	Dimensions  string  `csv:"dimensions"`
	Price       float64 `csv:"price"`
	Stock       int     `csv:"stock"`
	StockStatus string  `csv:"stock_status"`
	Visible     bool    `csv:"visible"`
}

func WriteOrdersCSV(w io.Writer, orders []models.Order) error {
	rows := make([]*orderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, &orderRow{
			ID:            o.ID,
			Date:          o.Date,
			CustomerID:    o.CustomerID,
			CustomerName:  o.CustomerName,
			Type:          string(o.Type),
			Status:        string(o.Status),
			PaymentMethod: string(o.PaymentMethod),
			TotalPrice:    o.TotalPrice,
			PaidAmount:    o.PaidAmount,
			BalanceDue:    analytics.BalanceDue(o),
		})
	}
	return gocsv.Marshal(rows, w)
}

// WriteProductsCSV writes products with the stock status derived from
// threshold rather than the stored snapshot.
func WriteProductsCSV(w io.Writer, products []models.Product, threshold int) error {
	rows := make([]*productRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, &productRow{
			ID:          p.ID,
			Name:        p.Name,
			Type:        string(p.Type),
			Shape:       string(p.Shape),
			Dimensions:  p.Dimensions,
			Price:       p.Price,
			Stock:       p.Stock,
			StockStatus: string(analytics.StockStatus(p.Stock, threshold)),
			Visible:     p.IsVisible,
		})
	}
	return gocsv.Marshal(rows, w)
}
