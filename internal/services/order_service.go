package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"mirror_shop/internal/models"
	"mirror_shop/internal/repository"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrInvalidFields     = errors.New("invalid order fields")
)

type OrderService interface {
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	// CreateOrder reports false when an order with the same id already exists;
	// order then holds the stored record.
	CreateOrder(ctx context.Context, order *models.Order) (bool, error)
	// UpdateOrder shallow-merges fields into the stored order. Keys absent
	// from fields keep their stored value.
	UpdateOrder(ctx context.Context, id string, fields map[string]interface{}) (*models.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func (s *orderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

func (s *orderService) CreateOrder(ctx context.Context, order *models.Order) (bool, error) {
	created, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		return false, fmt.Errorf("failed to create order: %w", err)
	}
	return created, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id string, fields map[string]interface{}) (*models.Order, error) {
	order, err := s.orderRepo.Update(ctx, id, func(order *models.Order) error {
		from := order.Status
		if err := mergeOrder(order, fields); err != nil {
			return err
		}
		order.ID = id

		if _, ok := fields["status"]; ok {
			if !order.Status.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidStatus, order.Status)
			}
			if !models.CanTransition(from, order.Status) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, order.Status)
			}
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func mergeOrder(order *models.Order, fields map[string]interface{}) error {
	// nested values are replaced, not merged
	if _, ok := fields["items"]; ok {
		order.Items = nil
	}
	if _, ok := fields["customDetails"]; ok {
		order.CustomDetails = nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           order,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build order decoder: %w", err)
	}
	if err := decoder.Decode(fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}
	return nil
}
