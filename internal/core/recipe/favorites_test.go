package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"recipefy/internal/core/store"
	"recipefy/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	record *store.UserRecord
	err    error
}

func (f *fakeUsers) Get(ctx context.Context, userID string) (*store.UserRecord, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return f.record, f.record != nil, nil
}

type fakeCatalog struct {
	payloads []json.RawMessage
	err      error
	calls    int
	lastIDs  []int64
}

func (f *fakeCatalog) GetBulk(ctx context.Context, ids []int64) ([]json.RawMessage, error) {
	f.calls++
	f.lastIDs = ids
	if f.err != nil {
		return nil, f.err
	}
	return f.payloads, nil
}

func TestFavoritesResolveMerges(t *testing.T) {
	users := &fakeUsers{record: &store.UserRecord{
		SavedRecipeIDs: []int64{716429, 716430},
		SavedGeneratedRecipes: []common.CanonicalRecipe{{
			ID:          1717171717171,
			Title:       "Garlic Noodles",
			Ingredients: []string{"200g noodles"},
			Source:      common.SourceGenerated,
		}},
	}}
	catalog := &fakeCatalog{payloads: []json.RawMessage{
		json.RawMessage(`{"id": 716429, "title": "Pasta"}`),
		json.RawMessage(`{"id": 716430, "title": "Salad"}`),
	}}

	svc := NewFavoritesService(users, catalog)
	got, err := svc.Resolve(context.Background(), "uid-1")
	require.NoError(t, err)

	// 目錄在前、生成在後，各自保序
	require.Len(t, got, 3)
	assert.Equal(t, "Pasta", got[0].Title)
	assert.Equal(t, "Salad", got[1].Title)
	assert.Equal(t, "Garlic Noodles", got[2].Title)
	assert.Equal(t, common.SourceGenerated, got[2].Source)

	// 全部識別碼走同一次批量請求
	assert.Equal(t, 1, catalog.calls)
	assert.Equal(t, []int64{716429, 716430}, catalog.lastIDs)
}

func TestFavoritesResolveNoRecord(t *testing.T) {
	svc := NewFavoritesService(&fakeUsers{}, &fakeCatalog{})

	got, err := svc.Resolve(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFavoritesResolveBulkFailure(t *testing.T) {
	users := &fakeUsers{record: &store.UserRecord{SavedRecipeIDs: []int64{716429}}}
	catalog := &fakeCatalog{err: errors.New("upstream down")}

	svc := NewFavoritesService(users, catalog)
	_, err := svc.Resolve(context.Background(), "uid-1")
	assert.ErrorIs(t, err, common.ErrFavoritesUnavailable)
}

func TestFavoritesResolveUserFailure(t *testing.T) {
	svc := NewFavoritesService(&fakeUsers{err: errors.New("firestore down")}, &fakeCatalog{})

	_, err := svc.Resolve(context.Background(), "uid-1")
	assert.ErrorIs(t, err, common.ErrFavoritesUnavailable)
}

func TestFavoritesResolveSkipsMalformed(t *testing.T) {
	users := &fakeUsers{record: &store.UserRecord{SavedRecipeIDs: []int64{1, 2}}}
	catalog := &fakeCatalog{payloads: []json.RawMessage{
		json.RawMessage(`{"id": 1}`),
		json.RawMessage(`{"id": 2, "title": "Salad"}`),
	}}

	svc := NewFavoritesService(users, catalog)
	got, err := svc.Resolve(context.Background(), "uid-1")
	require.NoError(t, err)

	// 壞掉的那筆被跳過，其餘照常
	require.Len(t, got, 1)
	assert.Equal(t, "Salad", got[0].Title)
}

func TestFavoritesResolveSkipsBulkWhenEmpty(t *testing.T) {
	users := &fakeUsers{record: &store.UserRecord{
		SavedGeneratedRecipes: []common.CanonicalRecipe{{
			ID:    1717171717171,
			Title: "Garlic Noodles",
		}},
	}}
	catalog := &fakeCatalog{}

	svc := NewFavoritesService(users, catalog)
	got, err := svc.Resolve(context.Background(), "uid-1")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, 0, catalog.calls)
}
