package products

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetBySKU(ctx context.Context, sku string) (Product, error) {
	return s.repo.GetBySKU(ctx, sku)
}

func (s *Service) StockLevels(ctx context.Context, id int64) ([]StockLevel, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.StockLevels(ctx, id)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := validate(product, true); err != nil {
		return Product{}, err
	}
	if product.UOM == "" {
		product.UOM = "Units"
	}
	return s.repo.Create(ctx, product)
}

// Update never touches the SKU; it is the product's immutable identity.
func (s *Service) Update(ctx context.Context, id int64, product Product) error {
	if err := validate(product, false); err != nil {
		return err
	}
	if product.UOM == "" {
		product.UOM = "Units"
	}
	return s.repo.Update(ctx, id, product)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
