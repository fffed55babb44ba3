package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"recipefy/internal/infrastructure/config"
	"recipefy/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client 食譜目錄 API 客戶端
type Client struct {
	config *config.Config
	client *resty.Client
	cache  *ResponseCache
}

// searchResponse 搜尋端點的回應外殼
type searchResponse struct {
	Results []json.RawMessage `json:"results"`
}

// NewClient 創建目錄客戶端
func NewClient(cfg *config.Config, cache *ResponseCache) *Client {
	client := resty.New().
		SetBaseURL(cfg.Spoonacular.BaseURL).
		SetTimeout(cfg.Spoonacular.Timeout).
		SetQueryParam("apiKey", cfg.Spoonacular.APIKey)

	return &Client{
		config: cfg,
		client: client,
		cache:  cache,
	}
}

// Search 關鍵字搜尋，回傳原始食譜清單
// addRecipeInformation 讓每筆結果直接帶完整資訊，省掉逐筆補查
func (c *Client) Search(ctx context.Context, query, mealType string, number, offset int) ([]json.RawMessage, error) {
	params := map[string]string{
		"query":                query,
		"addRecipeInformation": "true",
		"number":               strconv.Itoa(number),
		"offset":               strconv.Itoa(offset),
	}
	if mealType != "" {
		params["type"] = mealType
	}

	body, err := c.getJSON(ctx, "/recipes/complexSearch", params)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := common.ParseJSONBytes(body, &resp); err != nil {
		return nil, fmt.Errorf("catalog: parse search response: %w", err)
	}
	return resp.Results, nil
}

// Popular 熱門食譜清單（以人氣排序的搜尋）
func (c *Client) Popular(ctx context.Context, number int) ([]json.RawMessage, error) {
	params := map[string]string{
		"sort":                 "popularity",
		"addRecipeInformation": "true",
		"number":               strconv.Itoa(number),
	}

	body, err := c.getJSON(ctx, "/recipes/complexSearch", params)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := common.ParseJSONBytes(body, &resp); err != nil {
		return nil, fmt.Errorf("catalog: parse popular response: %w", err)
	}
	return resp.Results, nil
}

// GetByID 取得單一食譜的完整資訊
// 目錄方回 404 時以 ErrMalformedRecipe 呈現，呼叫端視同「找不到食譜」
func (c *Client) GetByID(ctx context.Context, id int64) (json.RawMessage, error) {
	path := fmt.Sprintf("/recipes/%d/information", id)
	body, err := c.getJSON(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// GetBulk 一次取回多筆食譜的完整資訊
// 全部識別碼放進同一個請求，回應順序由目錄方決定
func (c *Client) GetBulk(ctx context.Context, ids []int64) ([]json.RawMessage, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = strconv.FormatInt(id, 10)
	}
	params := map[string]string{
		"ids": strings.Join(joined, ","),
	}

	body, err := c.getJSON(ctx, "/recipes/informationBulk", params)
	if err != nil {
		return nil, err
	}

	var results []json.RawMessage
	if err := common.ParseJSONBytes(body, &results); err != nil {
		return nil, fmt.Errorf("catalog: parse bulk response: %w", err)
	}
	return results, nil
}

// getJSON 帶快取的 GET 請求，回傳原始回應內容
func (c *Client) getJSON(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	key := cacheKey(path, encodeParams(params))

	if cached, err := c.cache.Get(ctx, key); err == nil {
		common.LogCacheHit("catalog_response", key)
		return cached, nil
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)

	if err != nil {
		return nil, fmt.Errorf("catalog: request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		// 繼續處理
	case http.StatusNotFound:
		return nil, fmt.Errorf("catalog: recipe not found: %w", common.ErrMalformedRecipe)
	default:
		return nil, fmt.Errorf("catalog: api returned status %d: %s", resp.StatusCode(), resp.String())
	}

	body := resp.Body()
	if err := c.cache.Set(ctx, key, body); err != nil {
		common.LogWarn("目錄快取寫入失敗",
			zap.Error(err),
		)
	}
	return body, nil
}

// encodeParams 參數依鍵排序後編碼，確保快取鍵穩定
func encodeParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		values.Set(k, params[k])
	}
	return values.Encode()
}
