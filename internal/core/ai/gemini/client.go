package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"recipefy/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// GeminiService Gemini 生成式 API 客戶端
type GeminiService struct {
	config *config.Config
	client *resty.Client
}

// generateRequest generateContent 請求結構
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

// generateResponse generateContent 回應結構（只取用到的欄位）
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewGeminiService 創建 Gemini 客戶端
func NewGeminiService(cfg *config.Config) *GeminiService {
	client := resty.New().
		SetBaseURL(cfg.Gemini.BaseURL).
		SetTimeout(cfg.Gemini.Timeout).
		SetHeader("x-goog-api-key", cfg.Gemini.APIKey)

	return &GeminiService{
		config: cfg,
		client: client,
	}
}

// GenerateResponse 送出 prompt 並回傳模型的純文字回應
// 回應可能是 JSON 也可能是自由文字（拒答或追問），由呼叫端判斷
func (s *GeminiService) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	req := &generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{
			MaxOutputTokens: s.config.Gemini.MaxTokens,
		},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", s.config.Gemini.Model))

	if err != nil {
		return "", fmt.Errorf("failed to send request to Gemini: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Gemini API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// 解析回應
	var result generateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in Gemini response")
	}

	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("empty content in Gemini response")
	}
	return text, nil
}
