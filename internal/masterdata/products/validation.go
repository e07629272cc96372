package products

import (
	"strings"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

func validate(p Product, requireSKU bool) error {
	if requireSKU && strings.TrimSpace(p.SKU) == "" {
		return shared.FieldErrors{"sku": "sku is required"}
	}
	if strings.TrimSpace(p.Name) == "" {
		return shared.FieldErrors{"name": "product name is required"}
	}
	if p.Cost.IsNegative() {
		return shared.FieldErrors{"cost": "cost must not be negative"}
	}
	if p.Price.IsNegative() {
		return shared.FieldErrors{"price": "price must not be negative"}
	}
	return nil
}
