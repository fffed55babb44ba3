package common

// RecipeSource 食譜來源標籤
// 由識別碼分類器決定一次，之後隨資料流傳遞，不再重複判斷
type RecipeSource string

const (
	// SourceCatalog 來自第三方食譜目錄（Spoonacular）
	SourceCatalog RecipeSource = "catalog"
	// SourceGenerated 由生成式模型產生，僅存在於使用者自己的文件中
	SourceGenerated RecipeSource = "generated"
)

// CanonicalRecipe 統一的食譜展示結構
// 無論來源是目錄或 AI 生成，呈現層一律使用這個形狀
type CanonicalRecipe struct {
	ID                int64              `json:"id" firestore:"id"`
	Title             string             `json:"title" firestore:"title"`
	ImageURL          string             `json:"imageUrl" firestore:"imageUrl"`
	ReadyInMinutes    int                `json:"readyInMinutes" firestore:"readyInMinutes"`
	Servings          int                `json:"servings" firestore:"servings"`
	Ingredients       []string           `json:"ingredients" firestore:"ingredients"`
	InstructionGroups []InstructionGroup `json:"instructionGroups" firestore:"instructionGroups"`
	SummaryHTML       string             `json:"summary,omitempty" firestore:"summary,omitempty"`
	Source            RecipeSource       `json:"source" firestore:"source"`
}

// InstructionGroup 一組有序步驟，目錄食譜可能有多組（各自有名稱）
// AI 生成食譜永遠只有一組且無名稱
type InstructionGroup struct {
	Name  string            `json:"name,omitempty" firestore:"name,omitempty"`
	Steps []InstructionStep `json:"steps" firestore:"steps"`
}

// InstructionStep 單一步驟
type InstructionStep struct {
	Number int    `json:"number" firestore:"number"`
	Text   string `json:"step" firestore:"step"`
}
