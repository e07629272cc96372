package settings

import "time"

// Settings is the warehouse configuration. Exactly one row ever exists;
// the singleton sentinel column enforces that at the storage layer.
type Settings struct {
	ID                        int64     `json:"id"`
	LowStockThreshold         int       `json:"low_stock_threshold"`
	DefaultReceiptLocation    *int64    `json:"default_receipt_location_id"`
	DefaultDeliveryLocation   *int64    `json:"default_delivery_location_id"`
	DefaultAdjustmentLocation *int64    `json:"default_adjustment_location_id"`
	UpdatedAt                 time.Time `json:"updated_at"`
	UpdatedBy                 *int64    `json:"updated_by"`
}

const defaultLowStockThreshold = 10
