package settings

import (
	"context"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.repo.GetOrCreate(ctx)
}

func (s *Service) Update(ctx context.Context, settings Settings) (Settings, error) {
	if settings.LowStockThreshold < 0 {
		return Settings{}, shared.FieldErrors{"low_stock_threshold": "threshold must not be negative"}
	}
	return s.repo.Update(ctx, settings)
}

// LowStockThreshold satisfies the provider interfaces of the quants and
// dashboard modules.
func (s *Service) LowStockThreshold(ctx context.Context) (int, error) {
	settings, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return 0, err
	}
	return settings.LowStockThreshold, nil
}
