package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	uid   string
	email string
	err   error
}

func (f *fakeVerifier) VerifyIDToken(c *gin.Context, idToken string) (string, string, error) {
	return f.uid, f.email, f.err
}

func setupAuthRouter(verifier TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(verifier))

	router.GET("/open", func(c *gin.Context) {
		uid, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"uid": uid})
	})

	protected := router.Group("/protected")
	protected.Use(RequireUser())
	protected.GET("", func(c *gin.Context) {
		uid, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"uid": uid, "email": UserEmail(c)})
	})

	return router
}

func TestAuthSetsUser(t *testing.T) {
	router := setupAuthRouter(&fakeVerifier{uid: "uid-1", email: "a@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uid-1")
	assert.Contains(t, w.Body.String(), "a@example.com")
}

func TestRequireUserWithoutToken(t *testing.T) {
	router := setupAuthRouter(&fakeVerifier{uid: "uid-1"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please sign in to save recipes!")
}

func TestRequireUserWithInvalidToken(t *testing.T) {
	router := setupAuthRouter(&fakeVerifier{err: errors.New("token expired")})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOpenRouteWithoutToken(t *testing.T) {
	router := setupAuthRouter(&fakeVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
