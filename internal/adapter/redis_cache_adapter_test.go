package adapter

import (
	"context"
	"testing"
	"time"

	"studyhall/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapter_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectGet("studyhall:analysis:distribution:user1").SetVal(`{"mastered":3}`)

	val, err := cache.Get(context.Background(), "studyhall:analysis:distribution:user1")
	require.NoError(t, err)
	assert.Equal(t, `{"mastered":3}`, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectGet("missing-key").RedisNil()

	_, err := cache.Get(context.Background(), "missing-key")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectSet("key1", "value1", 30*time.Second).SetVal("OK")

	err := cache.Set(context.Background(), "key1", "value1", 30*time.Second)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectDel("key1").SetVal(1)

	err := cache.Delete(context.Background(), "key1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
