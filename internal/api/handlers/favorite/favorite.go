package favorite

import (
	"errors"
	"net/http"

	"recipefy/internal/api/middleware"
	recipeCore "recipefy/internal/core/recipe"
	"recipefy/internal/core/store"
	"recipefy/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ToggleRequest 收藏切換請求
type ToggleRequest struct {
	ID int64 `json:"id" binding:"required"` // 目錄食譜識別碼
}

// Handler 收藏處理程序
type Handler struct {
	favorites *recipeCore.FavoritesService
	users     *store.UserStore
}

// NewHandler 創建收藏處理程序
func NewHandler(favorites *recipeCore.FavoritesService, users *store.UserStore) *Handler {
	return &Handler{
		favorites: favorites,
		users:     users,
	}
}

// HandleList 收藏清單
// 目錄收藏與生成收藏合併回傳，目錄在前
func (h *Handler) HandleList(c *gin.Context) {
	uid, _ := middleware.UserID(c)

	recipes, err := h.favorites.Resolve(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleToggle 切換目錄食譜的收藏狀態
func (h *Handler) HandleToggle(c *gin.Context) {
	uid, _ := middleware.UserID(c)

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("收藏請求格式無效",
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	// 生成食譜不走識別碼收藏，有自己的存取路由
	if recipeCore.ClassifyID(req.ID) == common.SourceGenerated {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	saved, err := h.users.ToggleSaved(c.Request.Context(), uid, middleware.UserEmail(c), req.ID)
	if err != nil {
		respondError(c, common.ErrFavoritesUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// HandleSaveGenerated 收藏一份生成食譜
// 請求體是完整的食譜文件，存檔前先跑一次正規化確保形狀正確
func (h *Handler) HandleSaveGenerated(c *gin.Context) {
	uid, _ := middleware.UserID(c)

	var stored common.CanonicalRecipe
	if err := c.ShouldBindJSON(&stored); err != nil {
		common.LogWarn("生成收藏請求格式無效",
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	normalized, err := recipeCore.RenormalizeGenerated(&stored)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.users.AppendGenerated(c.Request.Context(), uid, middleware.UserEmail(c), normalized); err != nil {
		respondError(c, common.ErrFavoritesUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true, "recipe": normalized})
}

// HandleRemoveGenerated 移除一份生成食譜收藏
func (h *Handler) HandleRemoveGenerated(c *gin.Context) {
	uid, _ := middleware.UserID(c)

	id, err := recipeCore.ParseStoredID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	removed, err := h.users.RemoveGenerated(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, common.ErrFavoritesUnavailable)
		return
	}
	if !removed {
		respondError(c, common.ErrMalformedRecipe)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// respondError 把錯誤轉成統一的錯誤響應
func respondError(c *gin.Context, err error) {
	var custom *common.CustomError
	if errors.As(err, &custom) {
		c.JSON(custom.Status, common.ErrorResponse{
			Code:    custom.Code,
			Message: custom.Message,
		})
		return
	}

	common.LogError("未分類的處理錯誤",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(common.ErrInternalError.Status, common.ErrorResponse{
		Code:    common.ErrInternalError.Code,
		Message: common.ErrInternalError.Message,
	})
}
