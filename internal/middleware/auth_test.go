package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/private", RequireAuth(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, "user=%d", GetUserID(c))
	})
	r.GET("/admin", RequireAuth(testSecret), RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/optional", OptionalAuth(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, "user=%d", GetUserID(c))
	})
	return r
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	token, err := GenerateToken(7, "a@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	setupRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user=7", w.Body.String())
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	token, err := GenerateToken(3, "b@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	setupRouter().ServeHTTP(w, req)

	assert.Equal(t, "user=3", w.Body.String())
}

func TestRequireAuth_RejectsMissingOrForgedToken(t *testing.T) {
	forged, err := GenerateToken(1, "x@example.com", "admin", "other-secret", time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{"missing": "", "forged": forged, "garbage": "not-a-jwt"} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			setupRouter().ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireAuth_RedirectsBrowsers(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private?x=1", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	setupRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login?redirect=%2Fprivate%3Fx%3D1", w.Header().Get("Location"))
}

func TestRequireAdmin(t *testing.T) {
	userToken, _ := GenerateToken(2, "u@example.com", "user", testSecret, time.Hour)
	adminToken, _ := GenerateToken(1, "a@example.com", "admin", testSecret, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	setupRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	setupRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	w := httptest.NewRecorder()
	setupRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/optional", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user=0", w.Body.String())
}

func TestShouldRefresh(t *testing.T) {
	now := time.Now()
	fresh := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-10 * time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(50 * time.Minute)),
	}}
	stale := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-40 * time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(20 * time.Minute)),
	}}

	assert.False(t, shouldRefresh(fresh))
	assert.True(t, shouldRefresh(stale))
	assert.False(t, shouldRefresh(&Claims{}))
}
