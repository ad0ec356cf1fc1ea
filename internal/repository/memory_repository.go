package repository

import (
	"context"
	"sync"

	"mirror_shop/internal/models"
)

// The memory repositories keep each collection as an ordered slice guarded by
// its own lock. Contents are lost when the process exits.

type memoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

func NewMemoryProductRepository(seed []models.Product) ProductRepository {
	return &memoryProductRepository{products: append([]models.Product(nil), seed...)}
}

func (r *memoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Product{}, r.products...), nil
}

func (r *memoryProductRepository) Create(ctx context.Context, product *models.Product) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID == product.ID {
			*product = p
			return false, nil
		}
	}
	r.products = append([]models.Product{*product}, r.products...)
	return true, nil
}

func (r *memoryProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.products[:0]
	for _, p := range r.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	r.products = kept
	return nil
}

type memoryOrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewMemoryOrderRepository(seed []models.Order) OrderRepository {
	return &memoryOrderRepository{orders: append([]models.Order(nil), seed...)}
}

func (r *memoryOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Order{}, r.orders...), nil
}

func (r *memoryOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryOrderRepository) Create(ctx context.Context, order *models.Order) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == order.ID {
			*order = o
			return false, nil
		}
	}
	r.orders = append([]models.Order{*order}, r.orders...)
	return true, nil
}

func (r *memoryOrderRepository) Update(ctx context.Context, id string, apply func(order *models.Order) error) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID != id {
			continue
		}
		order := r.orders[i]
		if err := apply(&order); err != nil {
			return nil, err
		}
		r.orders[i] = order
		return &order, nil
	}
	return nil, ErrNotFound
}

type memoryCustomerRepository struct {
	mu        sync.RWMutex
	customers []models.Customer
}

func NewMemoryCustomerRepository(seed []models.Customer) CustomerRepository {
	return &memoryCustomerRepository{customers: append([]models.Customer(nil), seed...)}
}

func (r *memoryCustomerRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Customer{}, r.customers...), nil
}

func (r *memoryCustomerRepository) UpsertByPhone(ctx context.Context, customer models.Customer) (models.Customer, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.customers {
		if r.customers[i].Phone == customer.Phone {
			r.customers[i].Accumulate(customer)
			return r.customers[i], false, nil
		}
	}
	customer.RecordSource()
	r.customers = append(r.customers, customer)
	return customer, true, nil
}
