package history

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Store is the write surface the recorder needs. The stock transaction
// repository implements it so history rows commit atomically with the
// ledger mutations that caused them.
type Store interface {
	MoveExists(ctx context.Context, key MoveKey) (bool, error)
	Insert(ctx context.Context, entry Entry) error
}

// MoveEvent captures a stock move line reaching done.
type MoveEvent struct {
	PickingID             int64
	ProductID             int64
	Quantity              decimal.Decimal
	SourceLocationID      int64
	DestinationLocationID int64
	ActorID               *int64
	Notes                 string
}

// StatusEvent captures a picking status write.
type StatusEvent struct {
	PickingID int64
	OldStatus string
	NewStatus string
	ActorID   *int64
	Creation  bool
}

// Recorder appends audit rows with the duplicate-suppression rules the
// ledger depends on.
type Recorder struct{}

// MoveDone appends one stock_move row unless an identical row already
// exists. Re-saving a done move (a notes edit, say) must not duplicate
// the audit trail.
func (Recorder) MoveDone(ctx context.Context, store Store, ev MoveEvent) error {
	exists, err := store.MoveExists(ctx, MoveKey{
		PickingID:             ev.PickingID,
		ProductID:             ev.ProductID,
		Quantity:              ev.Quantity,
		SourceLocationID:      ev.SourceLocationID,
		DestinationLocationID: ev.DestinationLocationID,
	})
	if err != nil {
		return fmt.Errorf("history: duplicate check: %w", err)
	}
	if exists {
		return nil
	}
	qty := ev.Quantity
	return store.Insert(ctx, Entry{
		Action:                ActionStockMove,
		UserID:                ev.ActorID,
		PickingID:             &ev.PickingID,
		ProductID:             &ev.ProductID,
		Quantity:              &qty,
		SourceLocationID:      &ev.SourceLocationID,
		DestinationLocationID: &ev.DestinationLocationID,
		Notes:                 ev.Notes,
	})
}

// StatusChanged appends one status_change row. Nothing is written when the
// status did not actually change or when the write is the picking's
// initial creation.
func (Recorder) StatusChanged(ctx context.Context, store Store, ev StatusEvent) error {
	if ev.Creation || ev.OldStatus == ev.NewStatus {
		return nil
	}
	return store.Insert(ctx, Entry{
		Action:    ActionStatusChange,
		UserID:    ev.ActorID,
		PickingID: &ev.PickingID,
		OldStatus: ev.OldStatus,
		NewStatus: ev.NewStatus,
	})
}
