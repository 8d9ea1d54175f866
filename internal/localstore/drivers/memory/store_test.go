package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amanihealth/amani/internal/localstore"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, localstore.ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", "v1"))
	require.NoError(t, s.Set(ctx, "k", "v2"))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v2", v)

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"), "deleting an absent key is not an error")
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestStoreRejectsUseAfterClose(t *testing.T) {
	t.Parallel()

	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, localstore.ErrClosed)
	require.ErrorIs(t, s.Set(ctx, "k", "v"), localstore.ErrClosed)
	require.ErrorIs(t, s.Delete(ctx, "k"), localstore.ErrClosed)
	require.ErrorIs(t, s.Ping(ctx), localstore.ErrClosed)
}
