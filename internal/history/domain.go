package history

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action describes what kind of event a history row records.
type Action string

const (
	ActionStockMove    Action = "stock_move"
	ActionStatusChange Action = "status_change"
	ActionAdjustment   Action = "adjustment"
)

// Entry is one append-only audit row. Rows are never updated or deleted
// through the API surface.
type Entry struct {
	ID                    int64            `json:"id"`
	Timestamp             time.Time        `json:"timestamp"`
	UserID                *int64           `json:"user_id"`
	Action                Action           `json:"action_type"`
	PickingID             *int64           `json:"picking_id"`
	ProductID             *int64           `json:"product_id"`
	Quantity              *decimal.Decimal `json:"quantity"`
	SourceLocationID      *int64           `json:"source_location_id"`
	DestinationLocationID *int64           `json:"destination_location_id"`
	OldStatus             string           `json:"old_status"`
	NewStatus             string           `json:"new_status"`
	Notes                 string           `json:"notes"`

	// Denormalised for listings.
	UserLoginID      string `json:"user_login_id,omitempty"`
	ProductSKU       string `json:"product_sku,omitempty"`
	PickingReference string `json:"picking_reference,omitempty"`
}

// MoveKey identifies a stock_move row for duplicate suppression.
type MoveKey struct {
	PickingID             int64
	ProductID             int64
	Quantity              decimal.Decimal
	SourceLocationID      int64
	DestinationLocationID int64
}
