package categories

import (
	"context"
	"fmt"

	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

// maxDepth bounds parent-chain walks so a corrupted tree cannot loop forever.
const maxDepth = 32

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error) {
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

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	path, err := s.fullPath(ctx, category)
	if err != nil {
		return Category{}, err
	}
	category.FullPath = path
	return category, nil
}

func (s *Service) Children(ctx context.Context, id int64) ([]Category, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	children, err := s.repo.Children(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range children {
		path, err := s.fullPath(ctx, children[i])
		if err != nil {
			return nil, err
		}
		children[i].FullPath = path
	}
	return children, nil
}

func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	if err := s.validate(ctx, 0, category); err != nil {
		return Category{}, err
	}
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		return Category{}, err
	}
	return s.Get(ctx, created.ID)
}

func (s *Service) Update(ctx context.Context, id int64, category Category) error {
	if err := s.validate(ctx, id, category); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, category)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// fullPath walks the parent chain iteratively, guarding against cycles.
func (s *Service) fullPath(ctx context.Context, category Category) (string, error) {
	path := category.Name
	visited := map[int64]struct{}{category.ID: {}}
	parentID := category.ParentID
	for depth := 0; parentID != nil; depth++ {
		if depth >= maxDepth {
			return "", fmt.Errorf("categories: parent chain deeper than %d for id %d", maxDepth, category.ID)
		}
		if _, seen := visited[*parentID]; seen {
			return "", fmt.Errorf("categories: parent cycle detected at id %d", *parentID)
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

// wouldCycle reports whether assigning parentID to id would close a loop.
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
			return shared.FieldErrors{"parent_id": "parent category does not exist"}
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
