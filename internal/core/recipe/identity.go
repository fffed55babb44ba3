package recipe

import (
	"strconv"
	"strings"

	"recipefy/internal/pkg/common"
)

// catalogIDMaxDigits 目錄識別碼的十進位位數上限
// 目錄識別碼是小的流水號（≤10 位），AI 生成識別碼是毫秒級時間戳（13 位以上），
// 位數比較是唯一的分類依據。若目錄方未來發出超過 10 位的識別碼，會被誤判為生成食譜。
const catalogIDMaxDigits = 10

// Classify 判斷識別碼屬於目錄食譜或 AI 生成食譜
// 純函數，對任何數字字串都有定義；每個請求只判斷一次，結果隨資料流傳遞
func Classify(id string) common.RecipeSource {
	if digitCount(id) > catalogIDMaxDigits {
		return common.SourceGenerated
	}
	return common.SourceCatalog
}

// ClassifyID 以整數形式判斷識別碼來源
func ClassifyID(id int64) common.RecipeSource {
	return Classify(strconv.FormatInt(id, 10))
}

// digitCount 計算字串中的十進位數字個數
func digitCount(s string) int {
	n := 0
	for _, r := range strings.TrimSpace(s) {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
