package operationtypes

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]OperationType, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (OperationType, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, opType OperationType) (OperationType, error) {
	if err := validate(opType); err != nil {
		return OperationType{}, err
	}
	return s.repo.Create(ctx, opType)
}

func (s *Service) Update(ctx context.Context, id int64, opType OperationType) error {
	if err := validate(opType); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, opType)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
