package recipe

import (
	"testing"
	"time"

	"recipefy/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want common.RecipeSource
	}{
		{"短流水號", "716429", common.SourceCatalog},
		{"個位數", "7", common.SourceCatalog},
		{"恰好十位", "1234567890", common.SourceCatalog},
		{"十一位", "12345678901", common.SourceGenerated},
		{"毫秒時間戳", "1717171717171", common.SourceGenerated},
		{"前後空白", "  716429  ", common.SourceCatalog},
		{"空字串", "", common.SourceCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.id))
		})
	}
}

func TestClassifyID(t *testing.T) {
	assert.Equal(t, common.SourceCatalog, ClassifyID(716429))
	assert.Equal(t, common.SourceGenerated, ClassifyID(time.Now().UnixMilli()))
}
