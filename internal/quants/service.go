package quants

import (
	"context"
)

// SettingsProvider supplies the low-stock threshold.
type SettingsProvider interface {
	LowStockThreshold(ctx context.Context) (int, error)
}

type Service struct {
	repo     Repository
	settings SettingsProvider
}

func NewService(repo Repository, settings SettingsProvider) *Service {
	return &Service{repo: repo, settings: settings}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Quant, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) LowStock(ctx context.Context) ([]Quant, error) {
	threshold, err := s.settings.LowStockThreshold(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.LowStock(ctx, threshold)
}

func (s *Service) OutOfStock(ctx context.Context) ([]Quant, error) {
	return s.repo.OutOfStock(ctx)
}
