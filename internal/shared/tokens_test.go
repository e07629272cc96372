package shared_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

func newTokenManager(t *testing.T) (*shared.TokenManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewTokenManager(client, "test:token", time.Hour), mr
}

func TestTokenRoundTrip(t *testing.T) {
	tm, _ := newTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, shared.Actor{ID: 7, LoginID: "warehouse1"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	actor, err := tm.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(7), actor.ID)
	require.Equal(t, "warehouse1", actor.LoginID)
}

func TestTokenUnknown(t *testing.T) {
	tm, _ := newTokenManager(t)

	_, err := tm.Resolve(context.Background(), "nope")
	require.ErrorIs(t, err, shared.ErrTokenInvalid)

	_, err = tm.Resolve(context.Background(), "")
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}

func TestTokenExpiry(t *testing.T) {
	tm, mr := newTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, shared.Actor{ID: 1, LoginID: "worker"})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = tm.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}

func TestTokenRevoke(t *testing.T) {
	tm, _ := newTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, shared.Actor{ID: 1, LoginID: "worker"})
	require.NoError(t, err)
	require.NoError(t, tm.Revoke(ctx, token))

	_, err = tm.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}
