package recipe

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"recipefy/internal/api/middleware"
	"recipefy/internal/core/catalog"
	recipeCore "recipefy/internal/core/recipe"
	"recipefy/internal/core/store"
	"recipefy/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultSearchNumber  = 12
	defaultPopularNumber = 8
	maxResultNumber      = 50
)

// GenerateRequest 食譜生成請求
type GenerateRequest struct {
	Query string `json:"query" binding:"required"` // 使用者對想吃的東西的描述
}

// Handler 食譜處理程序
type Handler struct {
	catalog   *catalog.Client
	users     *store.UserStore
	generator *recipeCore.GeneratorService
}

// NewHandler 創建食譜處理程序
func NewHandler(catalogClient *catalog.Client, users *store.UserStore, generator *recipeCore.GeneratorService) *Handler {
	return &Handler{
		catalog:   catalogClient,
		users:     users,
		generator: generator,
	}
}

// HandleSearch 關鍵字搜尋
func (h *Handler) HandleSearch(c *gin.Context) {
	query := c.Query("query")
	mealType := c.Query("type")
	number := intQuery(c, "number", defaultSearchNumber)
	offset := intQuery(c, "offset", 0)

	results, err := h.catalog.Search(c.Request.Context(), query, mealType, number, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": h.normalizeAll(results),
	})
}

// HandlePopular 熱門食譜
func (h *Handler) HandlePopular(c *gin.Context) {
	number := intQuery(c, "number", defaultPopularNumber)

	results, err := h.catalog.Popular(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": h.normalizeAll(results),
	})
}

// HandleGetByID 單一食譜詳情
// 識別碼先分類：目錄識別碼向目錄方查詢，生成識別碼只存在於登入者自己的文件裡
func (h *Handler) HandleGetByID(c *gin.Context) {
	rawID := c.Param("id")

	switch recipeCore.Classify(rawID) {
	case common.SourceGenerated:
		h.getGenerated(c, rawID)
	default:
		h.getCatalog(c, rawID)
	}
}

// getCatalog 目錄食譜詳情
func (h *Handler) getCatalog(c *gin.Context, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		respondError(c, common.ErrMalformedRecipe)
		return
	}

	payload, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	normalized, err := recipeCore.Normalize(payload, common.SourceCatalog)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": normalized})
}

// getGenerated 生成食譜詳情
// 生成食譜沒有公開目錄，未登入或文件裡找不到都是 404
func (h *Handler) getGenerated(c *gin.Context, rawID string) {
	uid, ok := middleware.UserID(c)
	if !ok {
		respondError(c, common.ErrMalformedRecipe)
		return
	}

	id, err := recipeCore.ParseStoredID(rawID)
	if err != nil {
		respondError(c, err)
		return
	}

	stored, found, err := h.users.FindGenerated(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		respondError(c, common.ErrMalformedRecipe)
		return
	}

	normalized, err := recipeCore.RenormalizeGenerated(stored)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": normalized})
}

// HandleGenerate AI 食譜生成
// 成功時回傳食譜；模型拒答時把原始文字原樣帶回，兩者都是 200
func (h *Handler) HandleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("生成請求格式無效",
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), req.Query)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Recipe != nil {
		c.JSON(http.StatusOK, gin.H{"recipe": result.Recipe})
		return
	}
	c.JSON(http.StatusOK, gin.H{"refusal": result.Refusal})
}

// normalizeAll 正規化一批目錄食譜，單筆壞資料跳過不回報
func (h *Handler) normalizeAll(raws []json.RawMessage) []*common.CanonicalRecipe {
	result := make([]*common.CanonicalRecipe, 0, len(raws))
	for _, raw := range raws {
		normalized, err := recipeCore.Normalize(raw, common.SourceCatalog)
		if err != nil {
			common.LogWarn("清單含無法正規化的目錄食譜",
				zap.Error(err),
			)
			continue
		}
		result = append(result, normalized)
	}
	return result
}

// intQuery 解析整數查詢參數
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	if v > maxResultNumber {
		return maxResultNumber
	}
	return v
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
