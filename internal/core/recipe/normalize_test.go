package recipe

import (
	"encoding/json"
	"testing"

	"recipefy/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCatalogImage(t *testing.T) {
	tests := []struct {
		name  string
		image string
		want  string
	}{
		{"裸檔名補上主機", "716429-312x231.jpg", "https://spoonacular.com/recipeImages/716429-312x231.jpg"},
		{"絕對 URL 原樣保留", "https://img.example.com/pasta.jpg", "https://img.example.com/pasta.jpg"},
		{"http 也算絕對 URL", "http://img.example.com/pasta.jpg", "http://img.example.com/pasta.jpg"},
		{"沒有圖片用佔位圖", "", "https://via.placeholder.com/300x150?text=No%20Image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCatalog(&CatalogPayload{Title: "Pasta", Image: tt.image})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ImageURL)
		})
	}
}

func TestNormalizeCatalogDefaults(t *testing.T) {
	got, err := NormalizeCatalog(&CatalogPayload{Title: "Pasta"})
	require.NoError(t, err)

	assert.Equal(t, 20, got.ReadyInMinutes)
	assert.Equal(t, 2, got.Servings)
	assert.Equal(t, common.SourceCatalog, got.Source)
}

func TestNormalizeCatalogMissingTitle(t *testing.T) {
	_, err := NormalizeCatalog(&CatalogPayload{Image: "x.jpg"})
	assert.ErrorIs(t, err, common.ErrMalformedRecipe)

	_, err = Normalize(json.RawMessage(`{"id": 1}`), common.SourceCatalog)
	assert.ErrorIs(t, err, common.ErrMalformedRecipe)
}

func TestNormalizeCatalogAnalyzedInstructions(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 716429,
		"title": "Pasta",
		"readyInMinutes": 45,
		"servings": "4",
		"extendedIngredients": [
			{"original": "2 cups flour"},
			{"original": "salt"}
		],
		"analyzedInstructions": [
			{"name": "Sauce", "steps": [
				{"number": 1, "step": "Chop the garlic."},
				{"number": 2, "step": "Simmer the tomatoes."}
			]}
		]
	}`)

	got, err := Normalize(raw, common.SourceCatalog)
	require.NoError(t, err)

	assert.Equal(t, int64(716429), got.ID)
	assert.Equal(t, 45, got.ReadyInMinutes)
	assert.Equal(t, 4, got.Servings)
	assert.Equal(t, []string{"2 cups flour", "salt"}, got.Ingredients)

	require.Len(t, got.InstructionGroups, 1)
	group := got.InstructionGroups[0]
	assert.Equal(t, "Sauce", group.Name)
	require.Len(t, group.Steps, 2)
	assert.Equal(t, 1, group.Steps[0].Number)
	assert.Equal(t, "Chop the garlic.", group.Steps[0].Text)
}

func TestNormalizeCatalogFlatFallback(t *testing.T) {
	got, err := NormalizeCatalog(&CatalogPayload{
		Title:        "Toast",
		Instructions: FlatInstructions{"Slice the bread.", "Toast it."},
	})
	require.NoError(t, err)

	require.Len(t, got.InstructionGroups, 1)
	steps := got.InstructionGroups[0].Steps
	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].Number)
	assert.Equal(t, 2, steps[1].Number)
	assert.Equal(t, "Toast it.", steps[1].Text)
}

func TestNormalizeGenerated(t *testing.T) {
	raw := json.RawMessage(`{
		"title": "Garlic Noodles",
		"readyInMinutes": "25",
		"servings": 3,
		"ingredients": [
			"200g noodles",
			{"quantity": 2, "unit": "cloves", "name": "garlic"},
			{"name": "salt"}
		],
		"instructions": ["Boil the noodles.", "Fry the garlic."]
	}`)

	got, err := Normalize(raw, common.SourceGenerated)
	require.NoError(t, err)

	assert.Equal(t, common.SourceGenerated, got.Source)
	assert.Equal(t, "https://via.placeholder.com/300x150?text=No%20Image", got.ImageURL)
	assert.Equal(t, 25, got.ReadyInMinutes)
	assert.Equal(t, 3, got.Servings)
	assert.Equal(t, []string{"200g noodles", "2 cloves garlic", "salt"}, got.Ingredients)

	require.Len(t, got.InstructionGroups, 1)
	steps := got.InstructionGroups[0].Steps
	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].Number)
	assert.Equal(t, "Boil the noodles.", steps[0].Text)
}

func TestGeneratedIngredientDisplay(t *testing.T) {
	// 缺欄位不得出現 undefined 或多餘空白
	assert.Equal(t, "salt", GeneratedIngredient{Name: "salt"}.Display())
	assert.Equal(t, "2 cups flour", GeneratedIngredient{Quantity: "2", Unit: "cups", Name: "flour"}.Display())
	assert.Equal(t, "2 flour", GeneratedIngredient{Quantity: "2", Name: "flour"}.Display())
	assert.Equal(t, "a pinch of salt", GeneratedIngredient{Text: "a pinch of salt"}.Display())
}

func TestRenormalizeGeneratedIdempotent(t *testing.T) {
	raw := json.RawMessage(`{
		"title": "Garlic Noodles",
		"ingredients": ["200g noodles"],
		"instructions": ["Boil the noodles.", "Fry the garlic."]
	}`)

	first, err := Normalize(raw, common.SourceGenerated)
	require.NoError(t, err)
	first.ID = 1717171717171

	second, err := RenormalizeGenerated(first)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalizeGeneratedMissingTitle(t *testing.T) {
	_, err := NormalizeGenerated(&GeneratedPayload{})
	assert.ErrorIs(t, err, common.ErrMalformedRecipe)
}
