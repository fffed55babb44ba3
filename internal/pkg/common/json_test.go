package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripMarkdownFences(t *testing.T) {
	raw := "```json\n{\"title\": \"Pasta\"}\n```"
	assert.Equal(t, `{"title": "Pasta"}`, StripMarkdownFences(raw))

	// 沒有圍欄時原樣保留
	assert.Equal(t, `{"title": "Pasta"}`, StripMarkdownFences(`{"title": "Pasta"}`))
}

func TestExtractJSONObject(t *testing.T) {
	raw := `Sure! Here is your recipe: {"title": "Pasta"} Enjoy!`
	assert.Equal(t, `{"title": "Pasta"}`, ExtractJSONObject(raw))

	// 找不到物件時原樣保留
	assert.Equal(t, "no json here", ExtractJSONObject("no json here"))
}

func TestQuoteJSONKeys(t *testing.T) {
	assert.Equal(t, `{"title": "Pasta", "servings": 2}`, QuoteJSONKeys(`{title: "Pasta", servings: 2}`))
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	err := ParseJSON(`{"a": 1} {"b": 2}`, &v)
	assert.Error(t, err)
}

func TestParseJSONStrict(t *testing.T) {
	type target struct {
		Title string `json:"title"`
	}

	var v target
	require.NoError(t, ParseJSONStrict(`{"title": "Pasta"}`, &v))
	assert.Equal(t, "Pasta", v.Title)

	err := ParseJSONStrict(`{"title": "Pasta", "extra": true}`, &v)
	assert.Error(t, err)
}
