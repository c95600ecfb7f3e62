package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/umlweb/pkg/adapters/redis"
	"github.com/aretw0/umlweb/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunBlobStoreContract(t, store)
}

func TestRedisStore_PrefixAndTTL(t *testing.T) {
	store, mr := newTestStore(t, redis.WithPrefix("test:"), redis.WithTTL(time.Hour))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "uml-project-data", []byte("{}")))

	assert.True(t, mr.Exists("test:uml-project-data"))
	assert.Equal(t, time.Hour, mr.TTL("test:uml-project-data"))

	mr.FastForward(2 * time.Hour)
	assert.False(t, mr.Exists("test:uml-project-data"))
}

func TestRedisStore_Ping(t *testing.T) {
	store, mr := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
