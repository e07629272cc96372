package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	row     *Settings
	creates int
}

func (f *fakeRepository) GetOrCreate(context.Context) (Settings, error) {
	if f.row == nil {
		f.creates++
		f.row = &Settings{ID: 1, LowStockThreshold: defaultLowStockThreshold, UpdatedAt: time.Now()}
	}
	return *f.row, nil
}

func (f *fakeRepository) Update(ctx context.Context, s Settings) (Settings, error) {
	if _, err := f.GetOrCreate(ctx); err != nil {
		return Settings{}, err
	}
	s.ID = f.row.ID
	s.UpdatedAt = time.Now()
	*f.row = s
	return s, nil
}

func TestGetCreatesSingletonOnce(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo)

	first, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, defaultLowStockThreshold, first.LowStockThreshold)

	second, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, repo.creates)
}

func TestUpdateRejectsNegativeThreshold(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), Settings{LowStockThreshold: -1})
	require.Error(t, err)

	_, err = svc.Update(context.Background(), Settings{LowStockThreshold: 25})
	require.NoError(t, err)

	threshold, err := svc.LowStockThreshold(context.Background())
	require.NoError(t, err)
	require.Equal(t, 25, threshold)
}
