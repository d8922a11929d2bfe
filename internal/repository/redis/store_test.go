package rediskv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealfinder/internal/repository"
)

func setupStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)

	s := New(client, "test", ttl)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := setupStore(t, 0)

	_, err := s.Get(ctx, "cart")
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "cart", []byte(`{"items":[]}`)))
	got, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))

	raw, err := mr.Get("test:cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, raw)

	require.NoError(t, s.Delete(ctx, "cart"))
	assert.False(t, mr.Exists("test:cart"))
}

func TestStoreTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := setupStore(t, time.Minute)

	require.NoError(t, s.Set(ctx, "discover:view", []byte(`"map"`)))
	assert.Equal(t, time.Minute, mr.TTL("test:discover:view"))

	mr.FastForward(2 * time.Minute)
	_, err := s.Get(ctx, "discover:view")
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestLoadJSONFallsBackOnMalformedValue(t *testing.T) {
	ctx := context.Background()
	s, mr := setupStore(t, 0)
	require.NoError(t, mr.Set("test:discover:view", "{oops"))

	got, err := repository.LoadJSON(ctx, s, "discover:view", "list", nil)
	require.NoError(t, err)
	assert.Equal(t, "list", got)
}

func TestNewClientFailsWhenUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewClient(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
}

func TestStoreSurfacesBackendErrors(t *testing.T) {
	ctx := context.Background()
	s, mr := setupStore(t, 0)
	mr.SetError("READONLY")

	_, err := s.Get(ctx, "cart")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrKeyNotFound)

	_, err = repository.LoadJSON(ctx, s, "cart", 0, nil)
	assert.Error(t, err)
}
