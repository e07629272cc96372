// Package stock implements picking lifecycle management and the ledger
// commit that turns a planned movement into on-hand quantity changes.
package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle of a picking.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusConfirmed  Status = "confirmed"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// IsValid checks if the status is a known lifecycle state.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusAssigned, StatusInProgress, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanEdit checks if the picking header and lines may still change.
func (s Status) CanEdit() bool {
	return s == StatusDraft || s == StatusConfirmed
}

// CanConfirm checks if the picking can move to confirmed.
func (s Status) CanConfirm() bool {
	return s == StatusDraft
}

// CanCancel checks if the picking can be cancelled.
func (s Status) CanCancel() bool {
	return !s.Terminal()
}

// CanValidate checks if the ledger commit may run.
func (s Status) CanValidate() bool {
	return s != StatusDone && s != StatusCancelled
}

// Picking is the header of one planned or executed stock movement.
type Picking struct {
	ID                    int64      `json:"id"`
	Reference             string     `json:"reference"`
	Partner               string     `json:"partner"`
	OperationTypeID       int64      `json:"operation_type_id"`
	SourceLocationID      int64      `json:"source_location_id"`
	DestinationLocationID int64      `json:"destination_location_id"`
	Status                Status     `json:"status"`
	ScheduledDate         time.Time  `json:"scheduled_date"`
	CompletionDate        *time.Time `json:"completion_date"`
	Notes                 string     `json:"notes"`
	CreatedBy             *int64     `json:"created_by"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	// Denormalised for API representations.
	OperationTypeName       string `json:"operation_type_name,omitempty"`
	OperationTypeCode       string `json:"operation_type_code,omitempty"`
	SourceLocationName      string `json:"source_location_name,omitempty"`
	DestinationLocationName string `json:"destination_location_name,omitempty"`

	Moves []Move `json:"stock_moves,omitempty"`
}

// Move is a single product/quantity line belonging to a picking.
type Move struct {
	ID                    int64           `json:"id"`
	PickingID             int64           `json:"picking_id"`
	ProductID             int64           `json:"product_id"`
	Quantity              decimal.Decimal `json:"quantity"`
	SourceLocationID      int64           `json:"source_location_id"`
	DestinationLocationID int64           `json:"destination_location_id"`
	Status                Status          `json:"status"`
	Notes                 string          `json:"notes"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	ProductSKU              string `json:"product_sku,omitempty"`
	ProductName             string `json:"product_name,omitempty"`
	SourceLocationName      string `json:"source_location_name,omitempty"`
	DestinationLocationName string `json:"destination_location_name,omitempty"`
}

// Quant is the ledger row the commit phase mutates. Mirrors the read
// model in the quants package but lives here so the transactional write
// path has no dependency on the reporting side.
type Quant struct {
	ProductID  int64
	LocationID int64
	Quantity   decimal.Decimal
	Reserved   decimal.Decimal
}

// Available is the quantity not held by reservations.
func (q Quant) Available() decimal.Decimal {
	return q.Quantity.Sub(q.Reserved)
}

// OperationCodeOutgoing is the only operation code that triggers the
// availability check. Incoming, internal and manufacturing movements may
// drive a source quant negative: supplier and virtual locations carry
// unlimited float.
const OperationCodeOutgoing = "outgoing"
