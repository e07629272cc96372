package locations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

type fakeRepo struct {
	locations map[int64]Location
	nextID    int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{locations: map[int64]Location{}, nextID: 1}
}

func (f *fakeRepo) add(name string, parentID *int64) Location {
	l := Location{ID: f.nextID, Name: name, ParentID: parentID, UsageType: UsageInternal, IsActive: true}
	f.locations[l.ID] = l
	f.nextID++
	return l
}

func (f *fakeRepo) List(_ context.Context, _ ListFilters) ([]Location, int, error) {
	out := make([]Location, 0, len(f.locations))
	for _, l := range f.locations {
		out = append(out, l)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Location, error) {
	l, ok := f.locations[id]
	if !ok {
		return Location{}, httpx.ErrNotFound
	}
	return l, nil
}

func (f *fakeRepo) Children(_ context.Context, id int64) ([]Location, error) {
	var out []Location
	for _, l := range f.locations {
		if l.ParentID != nil && *l.ParentID == id {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRepo) StockLevels(_ context.Context, _ int64) ([]StockLevel, error) {
	return nil, nil
}

func (f *fakeRepo) Create(_ context.Context, l Location) (Location, error) {
	created := f.add(l.Name, l.ParentID)
	created.UsageType = l.UsageType
	created.IsActive = l.IsActive
	f.locations[created.ID] = created
	return created, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, l Location) error {
	existing, ok := f.locations[id]
	if !ok {
		return httpx.ErrNotFound
	}
	existing.Name = l.Name
	existing.ParentID = l.ParentID
	existing.UsageType = l.UsageType
	existing.IsActive = l.IsActive
	f.locations[id] = existing
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	delete(f.locations, id)
	return nil
}

func TestFullPathWalksParentChain(t *testing.T) {
	repo := newFakeRepo()
	wh := repo.add("WH", nil)
	stock := repo.add("Stock", &wh.ID)
	shelf := repo.add("Shelf A", &stock.ID)

	svc := NewService(repo)
	got, err := svc.Get(context.Background(), shelf.ID)
	require.NoError(t, err)
	require.Equal(t, "WH / Stock / Shelf A", got.FullPath)
}

func TestUpdateRejectsParentCycle(t *testing.T) {
	repo := newFakeRepo()
	wh := repo.add("WH", nil)
	stock := repo.add("Stock", &wh.ID)
	shelf := repo.add("Shelf A", &stock.ID)

	svc := NewService(repo)
	err := svc.Update(context.Background(), wh.ID, Location{
		Name:      "WH",
		ParentID:  &shelf.ID,
		UsageType: UsageInternal,
	})
	var fields shared.FieldErrors
	require.ErrorAs(t, err, &fields)
	require.Contains(t, fields, "parent_id")
}

func TestValidateRejectsUnknownUsageType(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.Create(context.Background(), Location{Name: "Dock", UsageType: "loading-bay"})
	var fields shared.FieldErrors
	require.ErrorAs(t, err, &fields)
	require.Contains(t, fields, "usage_type")
}
