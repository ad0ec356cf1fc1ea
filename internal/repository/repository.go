package repository

import (
	"context"
	"errors"

	"mirror_shop/internal/models"
)

var ErrNotFound = errors.New("record not found")

type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	// Create stores product unless one with the same id exists, in which case
	// product is overwritten with the stored record and created is false.
	Create(ctx context.Context, product *models.Product) (created bool, err error)
	Delete(ctx context.Context, id string) error
}

type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// Create behaves like ProductRepository.Create.
	Create(ctx context.Context, order *models.Order) (created bool, err error)
	// Update loads the order, lets apply modify it and stores the result as
	// one step. It returns ErrNotFound when no order has the id.
	Update(ctx context.Context, id string, apply func(order *models.Order) error) (*models.Order, error)
}

type CustomerRepository interface {
	GetAll(ctx context.Context) ([]models.Customer, error)
	// UpsertByPhone appends customer when its phone is unknown, otherwise it
	// accumulates it into the existing record. created reports which happened.
	// A record whose SourceOrderID was already applied changes nothing.
	UpsertByPhone(ctx context.Context, customer models.Customer) (result models.Customer, created bool, err error)
}
