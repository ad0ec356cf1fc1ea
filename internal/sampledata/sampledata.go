// Package sampledata holds the static catalogue used to seed the in-memory
// backend and to stand in for the backend when it cannot be reached.
package sampledata

import "mirror_shop/internal/models"

// Products returns a fresh copy of the sample products.
func Products() []models.Product {
	return []models.Product{
		{
			ID:         "p1",
			Name:       "Luxe LED Vanity Mirror",
			Image:      "https://picsum.photos/200/200?random=1",
			Type:       models.LEDMirror,
			Shape:      models.Rectangle,
			Dimensions: "60x80cm",
			Price:      1500,
			Stock:      12,
			Status:     models.InStock,
			IsVisible:  true,
		},
		{
			ID:         "p2",
			Name:       "Gold Sunburst Decor",
			Image:      "https://picsum.photos/200/200?random=2",
			Type:       models.Decorative,
			Shape:      models.Round,
			Dimensions: "90cm Dia",
			Price:      2200,
			Stock:      3,
			Status:     models.LowStock,
			IsVisible:  true,
		},
		{
			ID:         "p3",
			Name:       "Minimalist Black Frame",
			Image:      "https://picsum.photos/200/200?random=3",
			Type:       models.WallMirror,
			Shape:      models.Round,
			Dimensions: "50cm Dia",
			Price:      850,
			Stock:      0,
			Status:     models.OutOfStock,
			IsVisible:  true,
		},
		{
			ID:         "p4",
			Name:       "Frameless Beveled Edge",
			Image:      "https://picsum.photos/200/200?random=4",
			Type:       models.WallMirror,
			Shape:      models.Rectangle,
			Dimensions: "120x60cm",
			Price:      1100,
			Stock:      25,
			Status:     models.InStock,
			IsVisible:  true,
		},
	}
}

// Customers returns a fresh copy of the sample customers.
func Customers() []models.Customer {
	return []models.Customer{
		{ID: "c1", Name: "Amine Benali", Phone: "+212 661-123456", Address: "12 Bd Zerktouni", City: "Casablanca", TotalSpent: 4500, OrderCount: 2},
		{ID: "c2", Name: "Salma Bennani", Phone: "+212 663-987654", Address: "45 Ave Mohammed VI", City: "Marrakech", TotalSpent: 12000, OrderCount: 1},
		{ID: "c3", Name: "Youssef El Alami", Phone: "+212 661-554433", Address: "88 Rue des Consuls", City: "Rabat", TotalSpent: 1500, OrderCount: 1},
	}
}

// Orders returns a fresh copy of the sample orders.
func Orders() []models.Order {
	led := Products()[0]
	return []models.Order{
		{
			ID:            "ord-1001",
			CustomerID:    "c1",
			CustomerName:  "Amine Benali",
			Type:          models.StandardOrder,
			Date:          "2023-10-25",
			TotalPrice:    1500,
			PaidAmount:    1500,
			Status:        models.OrderCompleted,
			PaymentMethod: models.PaymentCard,
			Items:         []models.Product{led},
		},
		{
			ID:            "ord-1002",
			CustomerID:    "c2",
			CustomerName:  "Salma Bennani",
			Type:          models.CustomProject,
			Date:          "2023-10-26",
			TotalPrice:    12000,
			PaidAmount:    6000,
			Status:        models.OrderInProduction,
			PaymentMethod: models.PaymentTransfer,
			CustomDetails: &models.CustomOrderDetails{
				Width:                  200,
				Height:                 150,
				Shape:                  models.Rectangle,
				FrameType:              "Antique Brass",
				FrameColor:             "Gold",
				IsInstallationRequired: true,
			},
		},
		{
			ID:            "ord-1003",
			CustomerID:    "c3",
			CustomerName:  "Youssef El Alami",
			Type:          models.StandardOrder,
			Date:          "2023-10-27",
			TotalPrice:    1500,
			PaidAmount:    1500,
			Status:        models.OrderNew,
			PaymentMethod: models.PaymentCash,
			Items:         []models.Product{led},
		},
	}
}
