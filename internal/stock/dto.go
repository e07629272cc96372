package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRequest carries a picking header plus its lines. Line source,
// destination and status are inherited from the header at creation time.
type CreateRequest struct {
	Reference             string     `json:"reference" validate:"omitempty,max=50"`
	Partner               string     `json:"partner" validate:"omitempty,max=200"`
	OperationTypeID       int64      `json:"operation_type_id" validate:"required,gt=0"`
	SourceLocationID      int64      `json:"source_location_id" validate:"required,gt=0"`
	DestinationLocationID int64      `json:"destination_location_id" validate:"required,gt=0"`
	ScheduledDate         time.Time  `json:"scheduled_date" validate:"required"`
	Notes                 string     `json:"notes"`
	Lines                 []LineReq  `json:"lines" validate:"required,min=1,dive"`
}

// LineReq is one line in a nested create or update payload. A non-zero
// ID on update means "change this existing line"; a zero ID means
// "append a new one".
type LineReq struct {
	ID        int64           `json:"id,omitempty"`
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes"`
}

// UpdateRequest mutates the header and reconciles the line set. Lines
// absent from the payload are deleted.
type UpdateRequest struct {
	Partner               *string    `json:"partner,omitempty" validate:"omitempty,max=200"`
	SourceLocationID      *int64     `json:"source_location_id,omitempty" validate:"omitempty,gt=0"`
	DestinationLocationID *int64     `json:"destination_location_id,omitempty" validate:"omitempty,gt=0"`
	ScheduledDate         *time.Time `json:"scheduled_date,omitempty"`
	Notes                 *string    `json:"notes,omitempty"`
	Lines                 []LineReq  `json:"lines" validate:"required,min=1,dive"`
}

// ListFilters narrows picking listings.
type ListFilters struct {
	Page            int
	Limit           int
	Search          string
	Status          string
	OperationTypeID *int64
}

// Offset returns the SQL offset for the current page.
func (f ListFilters) Offset() int {
	offset := (f.Page - 1) * f.Limit
	if offset < 0 {
		return 0
	}
	return offset
}

// InsufficientStockPayload is the wire shape of a failed availability
// check, quantities rendered with two fractional digits.
type InsufficientStockPayload struct {
	Error     string `json:"error"`
	Product   string `json:"product"`
	Required  string `json:"required"`
	Available string `json:"available"`
	Location  string `json:"location"`
}

// NewInsufficientStockPayload shapes the error for the API.
func NewInsufficientStockPayload(e *InsufficientStockError) InsufficientStockPayload {
	return InsufficientStockPayload{
		Error:     "Insufficient stock",
		Product:   e.ProductSKU,
		Required:  e.Required.StringFixed(2),
		Available: e.Available.StringFixed(2),
		Location:  e.LocationName,
	}
}
