package services

import (
	"context"
	"fmt"

	"mirror_shop/internal/models"
	"mirror_shop/internal/repository"
)

type ProductService interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (bool, error)
	DeleteProduct(ctx context.Context, id string) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.GetAll(ctx)
}

// CreateProduct stores the product as given. The client assigns the id, so a
// resent product is answered with the stored record instead of a duplicate.
func (s *productService) CreateProduct(ctx context.Context, product *models.Product) (bool, error) {
	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return false, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
