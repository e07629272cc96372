package history

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	entries []Entry
}

func (f *fakeStore) MoveExists(_ context.Context, key MoveKey) (bool, error) {
	for _, e := range f.entries {
		if e.Action != ActionStockMove {
			continue
		}
		if e.PickingID != nil && *e.PickingID == key.PickingID &&
			e.ProductID != nil && *e.ProductID == key.ProductID &&
			e.Quantity != nil && e.Quantity.Equal(key.Quantity) &&
			e.SourceLocationID != nil && *e.SourceLocationID == key.SourceLocationID &&
			e.DestinationLocationID != nil && *e.DestinationLocationID == key.DestinationLocationID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Insert(_ context.Context, entry Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func TestMoveDoneDeduplicates(t *testing.T) {
	store := &fakeStore{}
	rec := Recorder{}
	ev := MoveEvent{
		PickingID:             1,
		ProductID:             7,
		Quantity:              decimal.RequireFromString("50.00"),
		SourceLocationID:      2,
		DestinationLocationID: 3,
	}

	require.NoError(t, rec.MoveDone(context.Background(), store, ev))
	require.Len(t, store.entries, 1)

	// Same move saved again, e.g. a notes-only edit after commit.
	require.NoError(t, rec.MoveDone(context.Background(), store, ev))
	require.Len(t, store.entries, 1)

	// A different quantity is a different event.
	ev.Quantity = decimal.RequireFromString("25.00")
	require.NoError(t, rec.MoveDone(context.Background(), store, ev))
	require.Len(t, store.entries, 2)
}

func TestStatusChangedSkipsCreationAndNoops(t *testing.T) {
	store := &fakeStore{}
	rec := Recorder{}

	require.NoError(t, rec.StatusChanged(context.Background(), store, StatusEvent{
		PickingID: 1, OldStatus: "", NewStatus: "draft", Creation: true,
	}))
	require.Empty(t, store.entries)

	require.NoError(t, rec.StatusChanged(context.Background(), store, StatusEvent{
		PickingID: 1, OldStatus: "draft", NewStatus: "draft",
	}))
	require.Empty(t, store.entries)

	require.NoError(t, rec.StatusChanged(context.Background(), store, StatusEvent{
		PickingID: 1, OldStatus: "draft", NewStatus: "done",
	}))
	require.Len(t, store.entries, 1)
	require.Equal(t, ActionStatusChange, store.entries[0].Action)
	require.Equal(t, "draft", store.entries[0].OldStatus)
	require.Equal(t, "done", store.entries[0].NewStatus)
}
