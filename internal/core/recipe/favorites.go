package recipe

import (
	"context"
	"encoding/json"
	"fmt"

	"recipefy/internal/core/store"
	"recipefy/internal/pkg/common"

	"go.uber.org/zap"
)

// CatalogSource 收藏解析所需的目錄讀取能力
// 批量請求是契約的一部分：一次請求取回全部識別碼，不是逐筆打 N 次
type CatalogSource interface {
	GetBulk(ctx context.Context, ids []int64) ([]json.RawMessage, error)
}

// UserSource 收藏解析所需的使用者文件讀取能力
type UserSource interface {
	Get(ctx context.Context, userID string) (*store.UserRecord, bool, error)
}

// FavoritesService 收藏清單解析服務
// 依賴一律由建構子注入，測試可以直接替換假實作
type FavoritesService struct {
	users   UserSource
	catalog CatalogSource
}

// NewFavoritesService 創建收藏清單解析服務
func NewFavoritesService(users UserSource, catalog CatalogSource) *FavoritesService {
	return &FavoritesService{
		users:   users,
		catalog: catalog,
	}
}

// Resolve 把使用者的兩種收藏合併成一份有序清單
// 目錄收藏以一次批量請求取回（回應順序保留），AI 收藏直接取自文件內嵌陣列（存檔順序保留），
// 目錄結果在前、生成結果在後。沒有文件時回傳空清單，不是錯誤。
// 批量請求失敗時整個操作以 ErrFavoritesUnavailable 失敗，不會默默只回生成子集。
func (s *FavoritesService) Resolve(ctx context.Context, userID string) ([]*common.CanonicalRecipe, error) {
	record, exists, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("favorites: load user record: %v: %w", err, common.ErrFavoritesUnavailable)
	}
	if !exists {
		return []*common.CanonicalRecipe{}, nil
	}

	result := make([]*common.CanonicalRecipe, 0, len(record.SavedRecipeIDs)+len(record.SavedGeneratedRecipes))

	if len(record.SavedRecipeIDs) > 0 {
		payloads, err := s.catalog.GetBulk(ctx, record.SavedRecipeIDs)
		if err != nil {
			return nil, fmt.Errorf("favorites: bulk catalog fetch: %v: %w", err, common.ErrFavoritesUnavailable)
		}
		for _, raw := range payloads {
			normalized, err := Normalize(raw, common.SourceCatalog)
			if err != nil {
				// 單筆壞資料視同不存在，跳過即可，不拖垮整份清單
				common.LogWarn("收藏清單含無法正規化的目錄食譜",
					zap.Error(err),
				)
				continue
			}
			result = append(result, normalized)
		}
	}

	for i := range record.SavedGeneratedRecipes {
		normalized, err := RenormalizeGenerated(&record.SavedGeneratedRecipes[i])
		if err != nil {
			common.LogWarn("收藏清單含無法正規化的生成食譜",
				zap.Error(err),
			)
			continue
		}
		result = append(result, normalized)
	}

	return result, nil
}
