package locations

import (
	"context"
	"strings"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

func (s *Service) validate(ctx context.Context, id int64, l Location) error {
	if strings.TrimSpace(l.Name) == "" {
		return shared.FieldErrors{"name": "location name is required"}
	}
	if !l.UsageType.Valid() {
		return shared.FieldErrors{"usage_type": "unknown usage type"}
	}
	return s.checkParent(ctx, id, l.ParentID)
}
