package stock

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrAlreadyDone is returned when validate is called on a done picking.
	ErrAlreadyDone = errors.New("Picking is already done")
	// ErrNotEditable is returned when a picking can no longer change.
	ErrNotEditable = errors.New("picking can no longer be edited")
	// ErrNotConfirmable is returned when confirm is called outside draft.
	ErrNotConfirmable = errors.New("only draft pickings can be confirmed")
	// ErrNotCancellable is returned for terminal pickings.
	ErrNotCancellable = errors.New("picking can no longer be cancelled")
	// ErrNotDraft guards deletion.
	ErrNotDraft = errors.New("only draft pickings can be deleted")
	// ErrReferenceConflict is returned when reference generation keeps
	// colliding under concurrent creates.
	ErrReferenceConflict = errors.New("could not allocate a unique reference")
	// ErrQuantNotFound indicates a missing ledger row.
	ErrQuantNotFound = errors.New("stock quant not found")
)

// InsufficientStockError reports the first line whose source location
// cannot cover the requested quantity.
type InsufficientStockError struct {
	ProductSKU   string
	Required     decimal.Decimal
	Available    decimal.Decimal
	LocationName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s at %s: required %s, available %s",
		e.ProductSKU, e.LocationName, e.Required.StringFixed(2), e.Available.StringFixed(2))
}
