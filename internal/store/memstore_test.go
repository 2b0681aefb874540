package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashendes/wigshop/internal/config"
)

func newMemStore(t *testing.T) *MemStore {
	t.Helper()
	s, err := NewMemStore()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMemStore_GetMissingIsNotAnError(t *testing.T) {
	s := newMemStore(t)

	v, ok, err := s.Get(context.Background(), "selectedColor")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestMemStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)

	require.NoError(t, s.Set(ctx, "selectedColor", "JET BLACK"))
	require.NoError(t, s.Set(ctx, "selectedColor", "AUBURN"))

	v, ok, err := s.Get(ctx, "selectedColor")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "AUBURN", v)

	require.NoError(t, s.Remove(ctx, "selectedColor"))
	require.NoError(t, s.Remove(ctx, "selectedColor"), "removing an absent key is fine")

	_, ok, err = s.Get(ctx, "selectedColor")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStore_KeysByPrefix(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)

	for _, k := range []string{"selectedLength", "editSelectedLength", "selectedColor", "cart"} {
		require.NoError(t, s.Set(ctx, k, "x"))
	}

	keys, err := s.Keys(ctx, "selected")
	require.NoError(t, err)
	assert.Equal(t, []string{"selectedColor", "selectedLength"}, keys)

	keys, err = s.Keys(ctx, "customizeSelected")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemStore_BatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)

	boom := errors.New("boom")
	err := s.Batch(ctx, func(w Writer) error {
		w.Set("selectedLength", `30"`)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok, _ := s.Get(ctx, "selectedLength")
	assert.False(t, ok)

	require.NoError(t, s.Batch(ctx, func(w Writer) error {
		w.Set("selectedLength", `30"`)
		w.Set("selectedLengthPrice", "150")
		return nil
	}))

	v, _, _ := s.Get(ctx, "selectedLengthPrice")
	assert.Equal(t, "150", v)
}

func TestMemStore_BatchHonoursCancelledContext(t *testing.T) {
	s := newMemStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Set(ctx, "cart", "[]")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)

	changes, cancel := s.Subscribe("cart")

	require.NoError(t, s.Set(ctx, "selectedColor", "AUBURN"))
	require.NoError(t, s.Set(ctx, "cartCount", "2"))
	require.NoError(t, s.Remove(ctx, "cartCount"))

	assert.Equal(t, Change{Key: "cartCount", Value: "2"}, <-changes)
	assert.Equal(t, Change{Key: "cartCount", Removed: true}, <-changes)

	cancel()
	cancel()
	_, open := <-changes
	assert.False(t, open)
}

func TestMemStore_SlowSubscriberDropsChanges(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)

	changes, cancel := s.Subscribe("")
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		require.NoError(t, s.Set(ctx, "cartCount", "1"))
	}
	assert.Len(t, changes, subscriberBuffer)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, &config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemStore{}, s)

	s, err = Open(ctx, &config.StoreConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MemStore{}, s)

	_, err = Open(ctx, &config.StoreConfig{Driver: "redis"})
	assert.Error(t, err)

	_, err = Open(ctx, &config.StoreConfig{Driver: "postgres"})
	assert.Error(t, err, "sql drivers need a dsn")
}
