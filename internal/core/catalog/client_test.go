package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipefy/internal/infrastructure/config"
	"recipefy/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Spoonacular.BaseURL = server.URL
	cfg.Spoonacular.APIKey = "test-key"
	cfg.Spoonacular.Timeout = 5 * time.Second

	cache, err := NewResponseCache(&config.CatalogCacheConfig{Enabled: false})
	require.NoError(t, err)

	return NewClient(cfg, cache)
}

func TestSearchSendsExpectedParams(t *testing.T) {
	var gotQuery, gotType, gotInfo, gotKey string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/complexSearch", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotType = r.URL.Query().Get("type")
		gotInfo = r.URL.Query().Get("addRecipeInformation")
		gotKey = r.URL.Query().Get("apiKey")
		w.Write([]byte(`{"results": [{"id": 1, "title": "Pasta"}]}`))
	}))

	results, err := client.Search(context.Background(), "pasta", "main course", 12, 0)
	require.NoError(t, err)

	assert.Len(t, results, 1)
	assert.Equal(t, "pasta", gotQuery)
	assert.Equal(t, "main course", gotType)
	assert.Equal(t, "true", gotInfo)
	assert.Equal(t, "test-key", gotKey)
}

func TestPopularSortsByPopularity(t *testing.T) {
	var gotSort string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSort = r.URL.Query().Get("sort")
		w.Write([]byte(`{"results": []}`))
	}))

	_, err := client.Popular(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "popularity", gotSort)
}

func TestGetBulkSingleRequest(t *testing.T) {
	var calls int
	var gotIDs string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/recipes/informationBulk", r.URL.Path)
		gotIDs = r.URL.Query().Get("ids")
		w.Write([]byte(`[{"id": 716429, "title": "Pasta"}, {"id": 716430, "title": "Salad"}]`))
	}))

	results, err := client.GetBulk(context.Background(), []int64{716429, 716430})
	require.NoError(t, err)

	// 全部識別碼放進同一個請求
	assert.Equal(t, 1, calls)
	assert.Equal(t, "716429,716430", gotIDs)
	assert.Len(t, results, 2)
}

func TestGetBulkEmptyIDs(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	results, err := client.GetBulk(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetByIDNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetByID(context.Background(), 99999999)
	assert.ErrorIs(t, err, common.ErrMalformedRecipe)
}

func TestGetByIDPath(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/716429/information", r.URL.Path)
		w.Write([]byte(`{"id": 716429, "title": "Pasta"}`))
	}))

	payload, err := client.GetByID(context.Background(), 716429)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Pasta")
}
