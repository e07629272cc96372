package locations

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageType classifies what a location is used for.
type UsageType string

const (
	UsageInternal   UsageType = "internal"
	UsageCustomer   UsageType = "customer"
	UsageSupplier   UsageType = "supplier"
	UsageInventory  UsageType = "inventory"
	UsageProduction UsageType = "production"
	UsageTransit    UsageType = "transit"
)

// Valid reports whether the usage type is one of the known classifications.
func (u UsageType) Valid() bool {
	switch u {
	case UsageInternal, UsageCustomer, UsageSupplier, UsageInventory, UsageProduction, UsageTransit:
		return true
	}
	return false
}

// Location is a node in the warehouse location tree.
type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id"`
	Barcode   *string   `json:"barcode"`
	UsageType UsageType `json:"usage_type"`
	IsActive  bool      `json:"is_active"`
	FullPath  string    `json:"full_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockLevel is the on-hand quantity of one product at this location.
type StockLevel struct {
	ProductID   int64           `json:"product_id"`
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reserved    decimal.Decimal `json:"reserved_quantity"`
}
