package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/lucasmonteiro/agendei/internal/config"
	"github.com/lucasmonteiro/agendei/internal/session"
	"github.com/lucasmonteiro/agendei/pkg/logging"
)

func TestBuildRedisClientDisabledWithoutAddr(t *testing.T) {
	cfg := &appconfig.Config{}
	assert.Nil(t, BuildRedisClient(context.Background(), cfg, logging.Default(), false))
	assert.Nil(t, BuildRedisClient(context.Background(), nil, nil, false))
}

func TestBuildRedisClientVerifies(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := &appconfig.Config{RedisAddr: mr.Addr()}
	client := BuildRedisClient(context.Background(), cfg, logging.Default(), true)
	require.NotNil(t, client)
	defer client.Close()

	// An unreachable address with verification on yields nil.
	bad := &appconfig.Config{RedisAddr: "127.0.0.1:1"}
	assert.Nil(t, BuildRedisClient(context.Background(), bad, logging.Default(), true))
}

func TestBuildSessionStoreFallsBackToMemory(t *testing.T) {
	cfg := &appconfig.Config{SessionTTL: time.Hour}
	store := BuildSessionStore(nil, cfg, logging.Default())
	_, ok := store.(*session.MemoryStore)
	assert.True(t, ok, "no redis client means the in-memory store")
}

func TestBuildSessionStorePrefersRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := &appconfig.Config{RedisAddr: mr.Addr(), SessionTTL: time.Hour}
	client := BuildRedisClient(context.Background(), cfg, logging.Default(), true)
	require.NotNil(t, client)
	defer client.Close()

	store := BuildSessionStore(client, cfg, logging.Default())
	_, ok := store.(*session.RedisStore)
	assert.True(t, ok)
}
