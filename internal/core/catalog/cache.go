package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"recipefy/internal/infrastructure/config"
	"recipefy/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ResponseCache 目錄回應快取
// 存活時間很短（預設 60 秒），目的是吸收重複瀏覽，不是長期快取
type ResponseCache struct {
	client *redis.Client
	config *config.CatalogCacheConfig
}

// NewResponseCache 創建目錄回應快取
func NewResponseCache(cfg *config.CatalogCacheConfig) (*ResponseCache, error) {
	if !cfg.Enabled {
		common.LogInfo("目錄快取停用")
		return &ResponseCache{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("目錄快取已初始化",
		zap.String("位址", cfg.RedisAddr),
		zap.Duration("存活時間", cfg.TTL),
	)
	return &ResponseCache{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取快取的回應內容
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || !c.config.Enabled || c.client == nil {
		return nil, common.ErrCacheDisabled
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, common.ErrCacheDisabled
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}
	return data, nil
}

// Set 設置快取的回應內容
func (c *ResponseCache) Set(ctx context.Context, key string, data []byte) error {
	if c == nil || !c.config.Enabled || c.client == nil {
		return nil
	}

	if err := c.client.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉快取連線
func (c *ResponseCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// cacheKey 以路徑與查詢參數生成快取鍵
func cacheKey(path, query string) string {
	hash := sha256.Sum256([]byte(path + "?" + query))
	return fmt.Sprintf("catalog:response:%s", hex.EncodeToString(hash[:]))
}
