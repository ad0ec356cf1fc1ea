package services

import (
	"context"
	"fmt"

	"mirror_shop/internal/models"
	"mirror_shop/internal/repository"
)

type CustomerService interface {
	GetAllCustomers(ctx context.Context) ([]models.Customer, error)
	// CreateOrUpdateCustomer treats the phone number as the customer key. A
	// known phone has the incoming TotalSpent and OrderCount added to it.
	CreateOrUpdateCustomer(ctx context.Context, customer models.Customer) (models.Customer, bool, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) GetAllCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.customerRepo.GetAll(ctx)
}

func (s *customerService) CreateOrUpdateCustomer(ctx context.Context, customer models.Customer) (models.Customer, bool, error) {
	result, created, err := s.customerRepo.UpsertByPhone(ctx, customer)
	if err != nil {
		return models.Customer{}, false, fmt.Errorf("failed to save customer: %w", err)
	}
	return result, created, nil
}
