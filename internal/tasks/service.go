package tasks

import (
	"context"
	"strings"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Task, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, task Task) (Task, error) {
	if task.Status == "" {
		task.Status = StatusPending
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if err := validate(task); err != nil {
		return Task{}, err
	}
	return s.repo.Create(ctx, task)
}

func (s *Service) Update(ctx context.Context, id int64, task Task) (Task, error) {
	if err := validate(task); err != nil {
		return Task{}, err
	}
	if err := s.repo.Update(ctx, id, task); err != nil {
		return Task{}, err
	}
	return s.repo.Get(ctx, id)
}

// Complete flips a task to completed regardless of its previous state,
// except for cancelled tasks.
func (s *Service) Complete(ctx context.Context, id int64) (Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if task.Status == StatusCancelled {
		return Task{}, shared.FieldErrors{"status": "cancelled tasks cannot be completed"}
	}
	if err := s.repo.SetStatus(ctx, id, StatusCompleted); err != nil {
		return Task{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(t Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return shared.FieldErrors{"title": "task title is required"}
	}
	if !t.Status.Valid() {
		return shared.FieldErrors{"status": "unknown status"}
	}
	if !t.Priority.Valid() {
		return shared.FieldErrors{"priority": "unknown priority"}
	}
	return nil
}
