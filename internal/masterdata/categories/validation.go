package categories

import (
	"context"
	"strings"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

func (s *Service) validate(ctx context.Context, id int64, c Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.FieldErrors{"name": "category name is required"}
	}
	return s.checkParent(ctx, id, c.ParentID)
}
