package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"click-collect/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(roles ...models.UserRole) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(secret), RoleRequired(roles...), func(c *gin.Context) {
		rid, ok := GetRestaurantID(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":       GetUserID(c),
			"role":          GetRole(c),
			"restaurant_id": rid,
			"scoped":        ok,
		})
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	rid := uint(4)
	admin := &models.User{ID: 2, Email: "a@example.com", Role: models.RoleAdmin, RestaurantID: &rid}
	token, err := GenerateToken(admin, secret)
	require.NoError(t, err)

	r := newRouter(models.RoleAdmin)

	w := get(r, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":2,"role":"admin","restaurant_id":4,"scoped":true}`, w.Body.String())

	w = get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"detail"`)

	w = get(r, token+"x")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other, err := GenerateToken(admin, []byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, other).Code)
}

func TestAuthRequired_Expired(t *testing.T) {
	claims := Claims{
		UserID: 1,
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(newRouter(models.RoleAdmin), token).Code)
}

func TestRoleRequired(t *testing.T) {
	super := &models.User{ID: 1, Role: models.RoleSuperAdmin}
	token, err := GenerateToken(super, secret)
	require.NoError(t, err)

	w := get(newRouter(models.RoleAdmin), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"Access denied. Required role(s): admin"}`, w.Body.String())

	w = get(newRouter(models.RoleAdmin, models.RoleSuperAdmin), token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"scoped":false`)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core).Sugar()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/boom", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "request completed", entries[0].Message)
	assert.Equal(t, "request failed", entries[1].Message)
	assert.Equal(t, "request rejected", entries[2].Message)
	assert.Equal(t, "/boom", entries[1].ContextMap()["path"])
}
