package quants

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quant is one ledger row: the on-hand quantity of a product at a location.
type Quant struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	LocationID int64          `json:"location_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reserved  decimal.Decimal `json:"reserved_quantity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Denormalised for listings.
	ProductSKU   string `json:"product_sku,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
	LocationName string `json:"location_name,omitempty"`
}

// Available is the quantity not held by reservations.
func (q Quant) Available() decimal.Decimal {
	return q.Quantity.Sub(q.Reserved)
}
