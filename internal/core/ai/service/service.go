package service

import (
	"context"
	"strings"
	"time"

	"recipefy/internal/core/ai/cache"
	"recipefy/internal/core/ai/gemini"
	"recipefy/internal/infrastructure/config"
	"recipefy/internal/pkg/common"

	"go.uber.org/zap"
)

// Responder 產生文字回應的能力
type Responder interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

// AIService AI 服務，組合快取與模型客戶端
// 同一個 prompt 的回應會被快取，重複請求不再打模型
type AIService struct {
	config    *config.Config
	responder Responder
	cache     *cache.CacheManager
}

// NewAIService 創建 AI 服務
func NewAIService(cfg *config.Config, cacheManager *cache.CacheManager) *AIService {
	return &AIService{
		config:    cfg,
		responder: gemini.NewGeminiService(cfg),
		cache:     cacheManager,
	}
}

// NewAIServiceWith 以指定的 responder 創建 AI 服務（測試用）
func NewAIServiceWith(cfg *config.Config, responder Responder, cacheManager *cache.CacheManager) *AIService {
	return &AIService{
		config:    cfg,
		responder: responder,
		cache:     cacheManager,
	}
}

// GenerateText 送出 prompt 取得模型回應，優先使用快取
func (s *AIService) GenerateText(ctx context.Context, prompt string) (string, error) {
	normalized := normalizePrompt(prompt)

	if cached, err := s.cache.Get(ctx, normalized); err == nil {
		common.LogCacheHit("ai_response", normalized)
		return cached, nil
	}
	common.LogCacheMiss("ai_response", normalized)

	start := time.Now()
	text, err := s.responder.GenerateResponse(ctx, normalized)
	common.LogAICall(normalized, time.Since(start), err, "")
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, normalized, text); err != nil {
		common.LogWarn("快取寫入失敗",
			zap.Error(err),
		)
	}
	return text, nil
}

// Close 關閉 AI 服務
func (s *AIService) Close() error {
	return s.cache.Close()
}

// normalizePrompt 修剪空白，避免同一個問題因空白差異快取兩份
func normalizePrompt(prompt string) string {
	return strings.TrimSpace(prompt)
}
