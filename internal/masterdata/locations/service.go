package locations

import (
	"context"
	"fmt"

	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

const maxDepth = 32

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Location, int, error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	for i := range list {
		path, err := s.fullPath(ctx, list[i])
		if err != nil {
			return nil, 0, err
		}
		list[i].FullPath = path
	}
	return list, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Location, error) {
	location, err := s.repo.Get(ctx, id)
	if err != nil {
		return Location{}, err
	}
	path, err := s.fullPath(ctx, location)
	if err != nil {
		return Location{}, err
	}
	location.FullPath = path
	return location, nil
}

func (s *Service) Children(ctx context.Context, id int64) ([]Location, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Children(ctx, id)
}

func (s *Service) StockLevels(ctx context.Context, id int64) ([]StockLevel, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.StockLevels(ctx, id)
}

func (s *Service) Create(ctx context.Context, location Location) (Location, error) {
	if err := s.validate(ctx, 0, location); err != nil {
		return Location{}, err
	}
	created, err := s.repo.Create(ctx, location)
	if err != nil {
		return Location{}, err
	}
	return s.Get(ctx, created.ID)
}

func (s *Service) Update(ctx context.Context, id int64, location Location) error {
	if err := s.validate(ctx, id, location); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, location)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) fullPath(ctx context.Context, location Location) (string, error) {
	path := location.Name
	visited := map[int64]struct{}{location.ID: {}}
	parentID := location.ParentID
	for depth := 0; parentID != nil; depth++ {
		if depth >= maxDepth {
			return "", fmt.Errorf("locations: parent chain deeper than %d for id %d", maxDepth, location.ID)
		}
		if _, seen := visited[*parentID]; seen {
			return "", fmt.Errorf("locations: parent cycle detected at id %d", *parentID)
		}
		visited[*parentID] = struct{}{}
		parent, err := s.repo.Get(ctx, *parentID)
		if err != nil {
			return "", err
		}
		path = parent.Name + " / " + path
		parentID = parent.ParentID
	}
	return path, nil
}

func (s *Service) wouldCycle(ctx context.Context, id int64, parentID *int64) (bool, error) {
	visited := map[int64]struct{}{}
	for depth := 0; parentID != nil; depth++ {
		if depth >= maxDepth {
			return true, nil
		}
		if *parentID == id {
			return true, nil
		}
		if _, seen := visited[*parentID]; seen {
			return true, nil
		}
		visited[*parentID] = struct{}{}
		parent, err := s.repo.Get(ctx, *parentID)
		if err != nil {
			return false, err
		}
		parentID = parent.ParentID
	}
	return false, nil
}

func (s *Service) checkParent(ctx context.Context, id int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	if _, err := s.repo.Get(ctx, *parentID); err != nil {
		if err == httpx.ErrNotFound {
			return shared.FieldErrors{"parent_id": "parent location does not exist"}
		}
		return err
	}
	if id > 0 {
		cyclic, err := s.wouldCycle(ctx, id, parentID)
		if err != nil {
			return err
		}
		if cyclic {
			return shared.FieldErrors{"parent_id": "parent assignment would create a cycle"}
		}
	}
	return nil
}
