package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/storage"
)

func TestMemoryRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemory()

	require.NoError(t, store.Save(ctx, "schedule", []byte(`{"entries":[]}`)))

	blob, err := store.Load(ctx, "schedule")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"entries":[]}`), blob)
}

func TestMemoryKeyNotFound(t *testing.T) {
	t.Parallel()

	_, err := storage.NewMemory().Load(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestMemoryEmptyKey(t *testing.T) {
	t.Parallel()

	store := storage.NewMemory()

	_, err := store.Load(context.Background(), "")
	assert.ErrorIs(t, err, storage.ErrEmptyKey)

	err = store.Save(context.Background(), "", nil)
	assert.ErrorIs(t, err, storage.ErrEmptyKey)
}

func TestMemoryOverwrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemory()

	require.NoError(t, store.Save(ctx, "k", []byte("first")))
	require.NoError(t, store.Save(ctx, "k", []byte("second")))

	blob, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), blob)
}

func TestMemoryCopiesBlobs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemory()

	in := []byte("data")
	require.NoError(t, store.Save(ctx, "k", in))
	in[0] = 'X'

	blob, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), blob)

	blob[0] = 'Y'
	again, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), again)
}
