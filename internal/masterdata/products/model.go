package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable or storable item identified by its SKU.
type Product struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id"`
	Cost        decimal.Decimal `json:"cost"`
	Price       decimal.Decimal `json:"price"`
	Barcode     string          `json:"barcode"`
	UOM         string          `json:"uom"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockLevel is the on-hand quantity of this product at one location.
type StockLevel struct {
	LocationID   int64           `json:"location_id"`
	LocationName string          `json:"location_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reserved     decimal.Decimal `json:"reserved_quantity"`
}
