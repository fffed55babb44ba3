package recipe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"recipefy/internal/pkg/common"

	"go.uber.org/zap"
)

// generatePromptTemplate 要求模型輸出固定形狀的 JSON
// 非料理請求不在這裡攔，模型的自由文字回應會原樣交還給使用者
const generatePromptTemplate = "Create a detailed recipe based on: %q. " +
	"Return JSON with fields: title, readyInMinutes, servings, " +
	"ingredients (array of strings), instructions (array of strings)."

// TextGenerator 生成服務所需的文字生成能力
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GenerationResult 生成結果：恰好一邊有值
// Recipe 非 nil 表示成功解析；否則 Refusal 裝著模型的原始文字回應
type GenerationResult struct {
	Recipe  *common.CanonicalRecipe
	Refusal string
}

// GeneratorService AI 食譜生成服務
type GeneratorService struct {
	ai TextGenerator
}

// NewGeneratorService 創建生成服務
func NewGeneratorService(ai TextGenerator) *GeneratorService {
	return &GeneratorService{
		ai: ai,
	}
}

// Generate 依使用者描述生成一份食譜
// 模型回應能解析成食譜時走正規化；不能解析時視為拒答，把原始文字原樣帶回；
// 只有傳輸層失敗才是錯誤（ErrGenerationFailed）
func (s *GeneratorService) Generate(ctx context.Context, query string) (*GenerationResult, error) {
	prompt := fmt.Sprintf(generatePromptTemplate, query)

	text, err := s.ai.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: ai request: %v: %w", err, common.ErrGenerationFailed)
	}

	recipe, ok := s.parseRecipe(text)
	if !ok {
		// 模型用自由文字回應（拒答或追問），原樣交還
		common.LogInfo("生成回應非食譜 JSON",
			zap.Int("回應長度", len(text)),
		)
		return &GenerationResult{Refusal: text}, nil
	}

	// 識別碼在生成當下指定，毫秒時間戳必然超過目錄識別碼的位數
	recipe.ID = time.Now().UnixMilli()
	return &GenerationResult{Recipe: recipe}, nil
}

// parseRecipe 嘗試把模型回應解析成食譜
// 先剝除 markdown 圍欄、擷取最外層物件，再走生成食譜的正規化
func (s *GeneratorService) parseRecipe(text string) (*common.CanonicalRecipe, bool) {
	cleaned := common.StripMarkdownFences(text)
	obj := common.ExtractJSONObject(cleaned)
	if !strings.HasPrefix(obj, "{") {
		return nil, false
	}

	var payload GeneratedPayload
	if err := common.ParseJSONBytes([]byte(obj), &payload); err != nil {
		return nil, false
	}

	recipe, err := NormalizeGenerated(&payload)
	if err != nil {
		return nil, false
	}
	return recipe, true
}

// ParseStoredID 解析路徑參數中的生成食譜識別碼
func ParseStoredID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("generate: invalid recipe id %q: %w", raw, common.ErrMalformedRecipe)
	}
	return id, nil
}
