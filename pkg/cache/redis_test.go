package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/require"

	"github.com/niiniyare/schemaforge/pkg/config"
)

func newMockService(t *testing.T) (Service, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	cfg := DefaultRedisConfig(&config.RedisConfig{Host: "localhost", Port: 6379})
	svc, err := NewRedisClientWithClient(cfg, client)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, mock
}

func TestNewRedisClientWithClientRejectsNilClient(t *testing.T) {
	cfg := DefaultRedisConfig(&config.RedisConfig{Host: "localhost", Port: 6379})
	_, err := NewRedisClientWithClient(cfg, nil)
	require.Error(t, err)
}

func TestNewRedisClientWithClientRejectsInvalidConfig(t *testing.T) {
	client, _ := redismock.NewClientMock()
	cfg := DefaultRedisConfig(&config.RedisConfig{Host: "localhost", Port: 6379})
	cfg.KeyPrefix = ""
	_, err := NewRedisClientWithClient(cfg, client)
	require.Error(t, err)
}

func TestPingDelegatesToRedis(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectPing().SetVal("PONG")
	require.NoError(t, svc.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGlobalMemoryRoundTrip(t *testing.T) {
	svc, _ := newMockService(t)

	type payload struct {
		Status string `json:"status"`
	}
	require.NoError(t, svc.SetGlobalMemory("formula:abc", payload{Status: "VALID"}, time.Minute))

	var got payload
	require.NoError(t, svc.GetGlobalMemory("formula:abc", &got))
	require.Equal(t, "VALID", got.Status)
}

func TestGlobalMemoryMissAndDelete(t *testing.T) {
	svc, _ := newMockService(t)

	var got string
	require.ErrorIs(t, svc.GetGlobalMemory("absent", &got), ErrCacheMiss)

	require.NoError(t, svc.SetGlobalMemory("ephemeral", "x", time.Minute))
	require.NoError(t, svc.DeleteGlobalMemory("ephemeral"))
	require.ErrorIs(t, svc.GetGlobalMemory("ephemeral", &got), ErrCacheMiss)
}
