package recipe

import (
	"context"
	"errors"
	"testing"

	"recipefy/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTextGenerator struct {
	text string
	err  error
}

func (f *fakeTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f.text, f.err
}

func TestGenerateParsesFencedJSON(t *testing.T) {
	svc := NewGeneratorService(&fakeTextGenerator{text: "```json\n" + `{
		"title": "Garlic Noodles",
		"readyInMinutes": 25,
		"servings": 2,
		"ingredients": ["200g noodles", "2 cloves garlic"],
		"instructions": ["Boil the noodles.", "Fry the garlic."]
	}` + "\n```"})

	result, err := svc.Generate(context.Background(), "something with noodles")
	require.NoError(t, err)
	require.NotNil(t, result.Recipe)
	assert.Empty(t, result.Refusal)

	assert.Equal(t, "Garlic Noodles", result.Recipe.Title)
	assert.Equal(t, common.SourceGenerated, result.Recipe.Source)

	// 生成識別碼是毫秒時間戳，必然落在生成食譜的位數範圍
	assert.Equal(t, common.SourceGenerated, ClassifyID(result.Recipe.ID))
}

func TestGenerateRefusalKeepsTextVerbatim(t *testing.T) {
	refusal := "I can't help with that request."
	svc := NewGeneratorService(&fakeTextGenerator{text: refusal})

	result, err := svc.Generate(context.Background(), "write me a poem")
	require.NoError(t, err)

	assert.Nil(t, result.Recipe)
	assert.Equal(t, refusal, result.Refusal)
}

func TestGenerateMalformedJSONIsRefusal(t *testing.T) {
	// 有大括號但缺 title，一樣走拒答路徑
	text := `{"note": "this is not a recipe"}`
	svc := NewGeneratorService(&fakeTextGenerator{text: text})

	result, err := svc.Generate(context.Background(), "noodles")
	require.NoError(t, err)

	assert.Nil(t, result.Recipe)
	assert.Equal(t, text, result.Refusal)
}

func TestGenerateTransportFailure(t *testing.T) {
	svc := NewGeneratorService(&fakeTextGenerator{err: errors.New("connection refused")})

	_, err := svc.Generate(context.Background(), "noodles")
	assert.ErrorIs(t, err, common.ErrGenerationFailed)
}

func TestParseStoredID(t *testing.T) {
	id, err := ParseStoredID("1717171717171")
	require.NoError(t, err)
	assert.Equal(t, int64(1717171717171), id)

	_, err = ParseStoredID("not-a-number")
	assert.ErrorIs(t, err, common.ErrMalformedRecipe)
}
