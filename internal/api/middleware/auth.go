package middleware

import (
	"strings"

	"recipefy/internal/pkg/common"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contextKeyUserID    = "auth_user_id"
	contextKeyUserEmail = "auth_user_email"
)

// TokenVerifier 驗證 ID token 的能力
type TokenVerifier interface {
	VerifyIDToken(ctx *gin.Context, idToken string) (uid, email string, err error)
}

// firebaseVerifier Firebase Auth 的 token 驗證
type firebaseVerifier struct {
	client *auth.Client
}

func (v *firebaseVerifier) VerifyIDToken(c *gin.Context, idToken string) (string, string, error) {
	token, err := v.client.VerifyIDToken(c.Request.Context(), idToken)
	if err != nil {
		return "", "", err
	}
	email, _ := token.Claims["email"].(string)
	return token.UID, email, nil
}

// NewFirebaseVerifier 以 Firebase Auth 客戶端創建驗證器
func NewFirebaseVerifier(client *auth.Client) TokenVerifier {
	return &firebaseVerifier{client: client}
}

// Auth 驗證中間件
// 有 Bearer token 就驗證並把使用者資訊放進請求上下文；
// 沒有 token 的請求照常放行，由 RequireUser 在需要登入的路由上把關
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		idToken := strings.TrimPrefix(header, "Bearer ")
		if idToken == header || idToken == "" {
			c.Next()
			return
		}

		uid, email, err := verifier.VerifyIDToken(c, idToken)
		if err != nil {
			common.LogWarn("Token 驗證失敗",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			c.Next()
			return
		}

		c.Set(contextKeyUserID, uid)
		c.Set(contextKeyUserEmail, email)
		c.Next()
	}
}

// RequireUser 需要登入的路由閘門
// 未驗證的請求以 401 拒絕，訊息固定提示使用者登入
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(common.ErrSaveRequiresAuth.Status, common.ErrorResponse{
				Code:    common.ErrSaveRequiresAuth.Code,
				Message: common.ErrSaveRequiresAuth.Message,
			})
			return
		}
		c.Next()
	}
}

// UserID 取出已驗證的使用者 ID
func UserID(c *gin.Context) (string, bool) {
	uid := c.GetString(contextKeyUserID)
	return uid, uid != ""
}

// UserEmail 取出已驗證的使用者 email
func UserEmail(c *gin.Context) string {
	return c.GetString(contextKeyUserEmail)
}
