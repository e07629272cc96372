package operationtypes

import (
	"strings"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

func validate(ot OperationType) error {
	if strings.TrimSpace(ot.Name) == "" {
		return shared.FieldErrors{"name": "operation type name is required"}
	}
	if !ot.Code.Valid() {
		return shared.FieldErrors{"code": "code must be one of incoming, outgoing, internal, manufacturing"}
	}
	if strings.TrimSpace(ot.SequencePrefix) == "" {
		return shared.FieldErrors{"sequence_prefix": "sequence prefix is required"}
	}
	return nil
}
