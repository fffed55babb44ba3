package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"recipefy/internal/pkg/common"
)

const usersCollection = "users"

// UserRecord 使用者的收藏文件，鍵為驗證後的使用者 ID
// savedRecipes 只存目錄識別碼（展示時再批量取回），
// savedAIRecipes 內嵌完整食譜（生成食譜在目錄方沒有可重取的條目）
type UserRecord struct {
	Email                 string                   `firestore:"email,omitempty"`
	SavedRecipeIDs        []int64                  `firestore:"savedRecipes"`
	SavedGeneratedRecipes []common.CanonicalRecipe `firestore:"savedAIRecipes"`
}

// UserStore 使用者文件存取
// 對同一份文件的併發修改一律交給 Firestore 的原子 merge / ArrayUnion / ArrayRemove，
// 這裡不做未受保護的讀改寫
type UserStore struct {
	client *firestore.Client
}

// NewUserStore 創建使用者文件存取
func NewUserStore(client *firestore.Client) *UserStore {
	return &UserStore{
		client: client,
	}
}

func (s *UserStore) doc(userID string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(userID)
}

// Get 讀取使用者文件，不存在時回傳 (nil, false, nil)
func (s *UserStore) Get(ctx context.Context, userID string) (*UserRecord, bool, error) {
	snap, err := s.doc(userID).Get(ctx)
	if snap != nil && !snap.Exists() {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get user record: %w", err)
	}

	var record UserRecord
	if err := snap.DataTo(&record); err != nil {
		return nil, false, fmt.Errorf("store: unmarshal user record: %w", err)
	}
	return &record, true, nil
}

// ensure 第一次收藏時建立文件（merge 寫入，已存在時只補 email）
func (s *UserStore) ensure(ctx context.Context, userID, email string) error {
	data := map[string]interface{}{}
	if email != "" {
		data["email"] = email
	}
	if _, err := s.doc(userID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("store: ensure user record: %w", err)
	}
	return nil
}

// ToggleSaved 翻轉目錄識別碼的收藏狀態，回傳翻轉後是否已收藏
// 新增與移除都走 Firestore 的原子陣列操作；對同一識別碼連按兩次會回到原狀
func (s *UserStore) ToggleSaved(ctx context.Context, userID, email string, recipeID int64) (bool, error) {
	if err := s.ensure(ctx, userID, email); err != nil {
		return false, err
	}

	record, exists, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	saved := false
	if exists {
		for _, id := range record.SavedRecipeIDs {
			if id == recipeID {
				saved = true
				break
			}
		}
	}

	update := firestore.Update{Path: "savedRecipes", Value: firestore.ArrayUnion(recipeID)}
	if saved {
		update = firestore.Update{Path: "savedRecipes", Value: firestore.ArrayRemove(recipeID)}
	}
	if _, err := s.doc(userID).Update(ctx, []firestore.Update{update}); err != nil {
		return false, fmt.Errorf("store: toggle saved recipe: %w", err)
	}
	return !saved, nil
}

// AppendGenerated 把完整的生成食譜附加到使用者文件
func (s *UserStore) AppendGenerated(ctx context.Context, userID, email string, r *common.CanonicalRecipe) error {
	if err := s.ensure(ctx, userID, email); err != nil {
		return err
	}

	update := firestore.Update{Path: "savedAIRecipes", Value: firestore.ArrayUnion(*r)}
	if _, err := s.doc(userID).Update(ctx, []firestore.Update{update}); err != nil {
		return fmt.Errorf("store: append generated recipe: %w", err)
	}
	return nil
}

// RemoveGenerated 移除指定識別碼的生成食譜
// 內嵌文件無法用 ArrayRemove 以識別碼比對，改在交易內過濾後整欄覆寫，維持原子性
func (s *UserStore) RemoveGenerated(ctx context.Context, userID string, recipeID int64) (bool, error) {
	removed := false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(s.doc(userID))
		if snap != nil && !snap.Exists() {
			return nil
		}
		if err != nil {
			return err
		}

		var record UserRecord
		if err := snap.DataTo(&record); err != nil {
			return err
		}

		kept := make([]common.CanonicalRecipe, 0, len(record.SavedGeneratedRecipes))
		for _, r := range record.SavedGeneratedRecipes {
			if r.ID == recipeID {
				removed = true
				continue
			}
			kept = append(kept, r)
		}
		if !removed {
			return nil
		}
		return tx.Set(s.doc(userID), map[string]interface{}{"savedAIRecipes": kept}, firestore.MergeAll)
	})
	if err != nil {
		return false, fmt.Errorf("store: remove generated recipe: %w", err)
	}
	return removed, nil
}

// FindGenerated 在使用者文件中尋找指定識別碼的生成食譜
func (s *UserStore) FindGenerated(ctx context.Context, userID string, recipeID int64) (*common.CanonicalRecipe, bool, error) {
	record, exists, err := s.Get(ctx, userID)
	if err != nil || !exists {
		return nil, false, err
	}
	for i := range record.SavedGeneratedRecipes {
		if record.SavedGeneratedRecipes[i].ID == recipeID {
			return &record.SavedGeneratedRecipes[i], true, nil
		}
	}
	return nil, false, nil
}
