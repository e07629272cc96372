package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

type fakeRepo struct {
	categories map[int64]Category
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{categories: map[int64]Category{}, nextID: 1}
}

func (f *fakeRepo) add(name string, parentID *int64) Category {
	c := Category{ID: f.nextID, Name: name, ParentID: parentID}
	f.categories[c.ID] = c
	f.nextID++
	return c
}

func (f *fakeRepo) List(_ context.Context, _ shared.ListFilters) ([]Category, int, error) {
	out := make([]Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return Category{}, httpx.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) Children(_ context.Context, id int64) ([]Category, error) {
	var out []Category
	for _, c := range f.categories {
		if c.ParentID != nil && *c.ParentID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, c Category) (Category, error) {
	created := f.add(c.Name, c.ParentID)
	created.Description = c.Description
	f.categories[created.ID] = created
	return created, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, c Category) error {
	existing, ok := f.categories[id]
	if !ok {
		return httpx.ErrNotFound
	}
	existing.Name = c.Name
	existing.ParentID = c.ParentID
	existing.Description = c.Description
	f.categories[id] = existing
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	delete(f.categories, id)
	return nil
}

func TestFullPathWalksParentChain(t *testing.T) {
	repo := newFakeRepo()
	root := repo.add("All", nil)
	electronics := repo.add("Electronics", &root.ID)
	phones := repo.add("Phones", &electronics.ID)

	svc := NewService(repo)
	got, err := svc.Get(context.Background(), phones.ID)
	require.NoError(t, err)
	require.Equal(t, "All / Electronics / Phones", got.FullPath)
}

func TestUpdateRejectsParentCycle(t *testing.T) {
	repo := newFakeRepo()
	root := repo.add("All", nil)
	child := repo.add("Electronics", &root.ID)
	grandchild := repo.add("Phones", &child.ID)

	svc := NewService(repo)

	// Reparenting the root under its own grandchild closes a loop.
	err := svc.Update(context.Background(), root.ID, Category{Name: "All", ParentID: &grandchild.ID})
	var fields shared.FieldErrors
	require.ErrorAs(t, err, &fields)
	require.Contains(t, fields, "parent_id")

	// Direct self-parenting is the degenerate case.
	err = svc.Update(context.Background(), child.ID, Category{Name: "Electronics", ParentID: &child.ID})
	require.ErrorAs(t, err, &fields)
	require.Contains(t, fields, "parent_id")
}

func TestCreateRejectsUnknownParent(t *testing.T) {
	svc := NewService(newFakeRepo())
	missing := int64(99)
	_, err := svc.Create(context.Background(), Category{Name: "Orphans", ParentID: &missing})
	var fields shared.FieldErrors
	require.ErrorAs(t, err, &fields)
	require.Contains(t, fields, "parent_id")
}
