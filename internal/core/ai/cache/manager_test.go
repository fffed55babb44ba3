package cache

import (
	"context"
	"testing"
	"time"

	"recipefy/internal/infrastructure/config"
	"recipefy/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(maxSize int, ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.MaxSize = maxSize
	cfg.Cache.TTL = ttl
	cfg.Cache.CleanupInterval = time.Minute
	return cfg
}

func TestCacheSetGet(t *testing.T) {
	m := NewManager(testConfig(10, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "prompt-a", "response-a"))

	got, err := m.Get(ctx, "prompt-a")
	require.NoError(t, err)
	assert.Equal(t, "response-a", got)

	_, err = m.Get(ctx, "prompt-b")
	assert.ErrorIs(t, err, common.ErrCacheDisabled)
}

func TestCacheExpiry(t *testing.T) {
	m := NewManager(testConfig(10, 10*time.Millisecond))
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "prompt-a", "response-a"))

	time.Sleep(20 * time.Millisecond)

	_, err := m.Get(ctx, "prompt-a")
	assert.ErrorIs(t, err, common.ErrCacheDisabled)
}

func TestCacheDisabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Enabled = false

	m := NewManager(cfg)
	assert.Nil(t, m)

	// nil 管理器可以安全呼叫
	_, err := m.Get(context.Background(), "prompt-a")
	assert.ErrorIs(t, err, common.ErrCacheDisabled)
	assert.NoError(t, m.Set(context.Background(), "prompt-a", "x"))
	assert.NoError(t, m.Close())
}

func TestCacheStats(t *testing.T) {
	m := NewManager(testConfig(10, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	_ = m.Set(ctx, "prompt-a", "response-a")
	_, _ = m.Get(ctx, "prompt-a")
	_, _ = m.Get(ctx, "prompt-b")

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}
