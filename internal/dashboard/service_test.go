package dashboard

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	calls   int
	pending map[string]int
}

func (f *fakeRepository) CountActiveProducts(context.Context) (int, error) {
	f.calls++
	return 12, nil
}

func (f *fakeRepository) CountLowStockQuants(context.Context, int) (int, error) {
	return 3, nil
}

func (f *fakeRepository) CountPendingPickingsByCode(context.Context) (map[string]int, error) {
	return f.pending, nil
}

type staticThreshold int

func (s staticThreshold) LowStockThreshold(context.Context) (int, error) {
	return int(s), nil
}

func TestStatsServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &fakeRepository{pending: map[string]int{"outgoing": 2, "incoming": 1}}
	svc := NewService(slog.New(slog.DiscardHandler), repo, staticThreshold(10), client)

	first, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, first.ActiveProducts)
	require.Equal(t, 3, first.LowStockQuants)
	require.Equal(t, 2, first.PendingPickings["outgoing"])
	require.Equal(t, 1, repo.calls)

	// Second read hits the cache, not the repository.
	second, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.calls)

	// After expiry the snapshot is rebuilt.
	mr.FastForward(cacheTTL * 2)
	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}

func TestInvalidateForcesRebuild(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &fakeRepository{pending: map[string]int{}}
	svc := NewService(slog.New(slog.DiscardHandler), repo, staticThreshold(10), client)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)
	svc.Invalidate(context.Background())

	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}
