package recipe

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"recipefy/internal/pkg/common"
)

const (
	// catalogImageBaseURL 目錄方的圖片主機路徑，裸檔名要補上這個前綴
	catalogImageBaseURL = "https://spoonacular.com/recipeImages/"
	// placeholderImageURL 沒有圖片時的固定佔位圖（AI 生成食譜一律使用）
	placeholderImageURL = "https://via.placeholder.com/300x150?text=No%20Image"

	defaultReadyInMinutes = 20
	defaultServings       = 2
)

// FlexInt 容錯整數：接受 JSON 數字或數字字串
// 模型回應偶爾把 readyInMinutes 輸出成 "30"
type FlexInt int

// UnmarshalJSON 實現 json.Unmarshaler 介面
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(int(v))
	return nil
}

// FlatInstructions 扁平步驟清單：接受字串陣列或單一字串
type FlatInstructions []string

// UnmarshalJSON 實現 json.Unmarshaler 介面
func (f *FlatInstructions) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*f = list
		return nil
	}
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			*f = nil
		} else {
			*f = []string{single}
		}
		return nil
	}
	*f = nil
	return nil
}

// CatalogPayload 目錄 API 的原始食譜形狀（只取用到的欄位）
type CatalogPayload struct {
	ID                   json.Number           `json:"id"`
	Title                string                `json:"title"`
	Image                string                `json:"image"`
	ReadyInMinutes       FlexInt               `json:"readyInMinutes"`
	Servings             FlexInt               `json:"servings"`
	Summary              string                `json:"summary"`
	ExtendedIngredients  []CatalogIngredient   `json:"extendedIngredients"`
	AnalyzedInstructions []AnalyzedInstruction `json:"analyzedInstructions"`
	Instructions         FlatInstructions      `json:"instructions"`
}

// CatalogIngredient 目錄食材，只取預先排版好的展示字串
type CatalogIngredient struct {
	Original string `json:"original"`
}

// AnalyzedInstruction 目錄方結構化步驟群組
type AnalyzedInstruction struct {
	Name  string         `json:"name"`
	Steps []AnalyzedStep `json:"steps"`
}

// AnalyzedStep 結構化步驟
type AnalyzedStep struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// GeneratedPayload AI 生成食譜的原始形狀
// 同時容納模型輸出與已存檔的 canonical 形狀（重複正規化必須是冪等的）
type GeneratedPayload struct {
	ID                json.Number               `json:"id"`
	Title             string                    `json:"title"`
	ReadyInMinutes    FlexInt                   `json:"readyInMinutes"`
	Servings          FlexInt                   `json:"servings"`
	Ingredients       []GeneratedIngredient     `json:"ingredients"`
	Instructions      FlatInstructions          `json:"instructions"`
	InstructionGroups []common.InstructionGroup `json:"instructionGroups"`
}

// GeneratedIngredient 生成食材：可能是純字串，也可能是 {quantity, unit, name} 結構
type GeneratedIngredient struct {
	Text     string
	Quantity string
	Unit     string
	Name     string
}

// UnmarshalJSON 實現 json.Unmarshaler 介面
func (g *GeneratedIngredient) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		g.Text = s
		return nil
	}
	var obj struct {
		Quantity json.Number `json:"quantity"`
		Unit     string      `json:"unit"`
		Name     string      `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	g.Quantity = obj.Quantity.String()
	g.Unit = obj.Unit
	g.Name = obj.Name
	return nil
}

// Display 組合展示字串
// 缺少的欄位直接省略，不會出現 "undefined" 或多餘空白
func (g GeneratedIngredient) Display() string {
	if g.Text != "" {
		return g.Text
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{g.Quantity, g.Unit, g.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Normalize 把任一來源的原始食譜資料轉成統一的展示結構
// 資料缺少必要欄位時回傳 ErrMalformedRecipe，呼叫端視同「找不到食譜」
func Normalize(raw json.RawMessage, src common.RecipeSource) (*common.CanonicalRecipe, error) {
	switch src {
	case common.SourceGenerated:
		var p GeneratedPayload
		if err := common.ParseJSONBytes(raw, &p); err != nil {
			return nil, fmt.Errorf("normalize: decode generated payload: %w", common.ErrMalformedRecipe)
		}
		return NormalizeGenerated(&p)
	default:
		var p CatalogPayload
		if err := common.ParseJSONBytes(raw, &p); err != nil {
			return nil, fmt.Errorf("normalize: decode catalog payload: %w", common.ErrMalformedRecipe)
		}
		return NormalizeCatalog(&p)
	}
}

// NormalizeCatalog 正規化目錄食譜
func NormalizeCatalog(p *CatalogPayload) (*common.CanonicalRecipe, error) {
	if p == nil || p.Title == "" {
		return nil, fmt.Errorf("normalize: catalog payload missing title: %w", common.ErrMalformedRecipe)
	}

	id, _ := p.ID.Int64()

	ingredients := make([]string, 0, len(p.ExtendedIngredients))
	for _, ing := range p.ExtendedIngredients {
		ingredients = append(ingredients, ing.Original)
	}

	return &common.CanonicalRecipe{
		ID:                id,
		Title:             p.Title,
		ImageURL:          resolveCatalogImage(p.Image),
		ReadyInMinutes:    defaultInt(int(p.ReadyInMinutes), defaultReadyInMinutes),
		Servings:          defaultInt(int(p.Servings), defaultServings),
		Ingredients:       ingredients,
		InstructionGroups: catalogInstructionGroups(p),
		SummaryHTML:       p.Summary,
		Source:            common.SourceCatalog,
	}, nil
}

// NormalizeGenerated 正規化 AI 生成食譜
// 對已經是 canonical 形狀的輸入是冪等的：再跑一次結果不變
func NormalizeGenerated(p *GeneratedPayload) (*common.CanonicalRecipe, error) {
	if p == nil || p.Title == "" {
		return nil, fmt.Errorf("normalize: generated payload missing title: %w", common.ErrMalformedRecipe)
	}

	id, _ := p.ID.Int64()

	ingredients := make([]string, 0, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		ingredients = append(ingredients, ing.Display())
	}

	steps := p.Instructions
	if len(steps) == 0 {
		// 已存檔的 canonical 形狀把步驟放在 instructionGroups
		for _, g := range p.InstructionGroups {
			for _, s := range g.Steps {
				steps = append(steps, s.Text)
			}
		}
	}

	var groups []common.InstructionGroup
	if len(steps) > 0 {
		numbered := make([]common.InstructionStep, len(steps))
		for i, text := range steps {
			numbered[i] = common.InstructionStep{Number: i + 1, Text: text}
		}
		groups = []common.InstructionGroup{{Steps: numbered}}
	}

	return &common.CanonicalRecipe{
		ID:                id,
		Title:             p.Title,
		ImageURL:          placeholderImageURL, // 生成食譜沒有真實圖片
		ReadyInMinutes:    defaultInt(int(p.ReadyInMinutes), defaultReadyInMinutes),
		Servings:          defaultInt(int(p.Servings), defaultServings),
		Ingredients:       ingredients,
		InstructionGroups: groups,
		Source:            common.SourceGenerated,
	}, nil
}

// RenormalizeGenerated 對已存檔的 canonical 生成食譜再跑一次正規化
// 存檔當下已是 canonical 形狀，但契約要求讀取時仍走同一條正規化路徑
func RenormalizeGenerated(r *common.CanonicalRecipe) (*common.CanonicalRecipe, error) {
	if r == nil {
		return nil, fmt.Errorf("normalize: nil stored recipe: %w", common.ErrMalformedRecipe)
	}

	ingredients := make([]GeneratedIngredient, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		ingredients = append(ingredients, GeneratedIngredient{Text: line})
	}

	return NormalizeGenerated(&GeneratedPayload{
		ID:                json.Number(strconv.FormatInt(r.ID, 10)),
		Title:             r.Title,
		ReadyInMinutes:    FlexInt(r.ReadyInMinutes),
		Servings:          FlexInt(r.Servings),
		Ingredients:       ingredients,
		InstructionGroups: r.InstructionGroups,
	})
}

// resolveCatalogImage 決定目錄食譜的圖片 URL
// 絕對 URL 直接使用；裸檔名補上目錄圖片主機；完全沒有就用佔位圖
func resolveCatalogImage(image string) string {
	switch {
	case image == "":
		return placeholderImageURL
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return image
	default:
		return catalogImageBaseURL + image
	}
}

// catalogInstructionGroups 取結構化步驟群組，沒有時退回扁平清單
func catalogInstructionGroups(p *CatalogPayload) []common.InstructionGroup {
	var groups []common.InstructionGroup
	for _, ai := range p.AnalyzedInstructions {
		if len(ai.Steps) == 0 {
			continue
		}
		steps := make([]common.InstructionStep, len(ai.Steps))
		for i, s := range ai.Steps {
			steps[i] = common.InstructionStep{Number: s.Number, Text: s.Step}
		}
		groups = append(groups, common.InstructionGroup{Name: ai.Name, Steps: steps})
	}
	if len(groups) > 0 {
		return groups
	}

	// 退回扁平步驟，從 1 開始依序編號
	if len(p.Instructions) > 0 {
		steps := make([]common.InstructionStep, len(p.Instructions))
		for i, text := range p.Instructions {
			steps[i] = common.InstructionStep{Number: i + 1, Text: text}
		}
		return []common.InstructionGroup{{Steps: steps}}
	}
	return nil
}

// defaultInt 零值或負值以預設值取代
func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
