package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"mirror_shop/internal/models"
)

const placeholderImageURL = "https://via.placeholder.com/200?text="

var ErrInvalidProduct = errors.New("invalid product")

type ProductForm struct {
	Name       string
	Image      string
	Type       models.MirrorType
	Shape      models.MirrorShape
	Dimensions string
	Price      float64
	Stock      int
}

// NewProduct builds a visible product from form. The stored status is a
// creation-time snapshot; displays derive it again from the threshold.
func (c *Controller) NewProduct(form ProductForm) (models.Product, error) {
	name := strings.TrimSpace(form.Name)
	switch {
	case name == "":
		return models.Product{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case form.Price < 0:
		return models.Product{}, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	case form.Stock < 0:
		return models.Product{}, fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}

	p := models.Product{
		ID:         c.ids.Product(),
		Name:       name,
		Image:      form.Image,
		Type:       form.Type,
		Shape:      form.Shape,
		Dimensions: form.Dimensions,
		Price:      form.Price,
		Stock:      form.Stock,
		Status:     models.OutOfStock,
		IsVisible:  true,
	}
	if p.Image == "" {
		p.Image = placeholderImageURL + url.PathEscape(name)
	}
	if p.Dimensions == "" {
		p.Dimensions = "Standard"
	}
	if p.Type == "" {
		p.Type = models.WallMirror
	}
	if p.Shape == "" {
		p.Shape = models.Rectangle
	}
	if p.Stock > 0 {
		p.Status = models.InStock
	}
	return p, nil
}

type CustomOrderForm struct {
	CustomerName string
	Phone        string
	Address      string
	City         string

	Width                  float64
	Height                 float64
	Shape                  models.MirrorShape
	FrameType              string
	FrameColor             string
	IsInstallationRequired bool

	TotalPrice    float64
	PaidAmount    float64
	PaymentMethod models.PaymentMethod
}

// NewCustomOrder builds a custom project order dated today and the customer
// record it carries. The customer counts this single order only, which is the
// delta the backend folds into an existing customer with the same phone.
func (c *Controller) NewCustomOrder(form CustomOrderForm) (models.Order, models.Customer) {
	customer := models.Customer{
		ID:         c.ids.Customer(),
		Name:       form.CustomerName,
		Phone:      form.Phone,
		Address:    form.Address,
		City:       form.City,
		TotalSpent: form.TotalPrice,
		OrderCount: 1,
	}

	shape := form.Shape
	if shape == "" {
		shape = models.Rectangle
	}
	method := form.PaymentMethod
	if method == "" {
		method = models.PaymentCash
	}

	order := models.Order{
		ID:            c.ids.Order(),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		Type:          models.CustomProject,
		Date:          c.now().Format("2006-01-02"),
		TotalPrice:    form.TotalPrice,
		PaidAmount:    form.PaidAmount,
		Status:        models.OrderNew,
		PaymentMethod: method,
		CustomDetails: &models.CustomOrderDetails{
			Width:                  form.Width,
			Height:                 form.Height,
			Shape:                  shape,
			FrameType:              form.FrameType,
			FrameColor:             form.FrameColor,
			IsInstallationRequired: form.IsInstallationRequired,
		},
	}
	customer.SourceOrderID = order.ID
	return order, customer
}
