package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-accounts/internal/domain"
	"go-accounts/internal/middleware"
	"go-accounts/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(tokens *token.Service, allowed ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlers := []gin.HandlerFunc{middleware.Auth(tokens)}
	if len(allowed) > 0 {
		handlers = append(handlers, middleware.RequireRoles(allowed...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		claims, _ := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})

	r.GET("/protected", handlers...)
	return r
}

func TestAuth(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)

	t.Run("missing token", func(t *testing.T) {
		r := newRouter(tokens)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("garbage token", func(t *testing.T) {
		r := newRouter(tokens)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		shortLived := token.NewService("test-secret", time.Nanosecond)
		raw, err := shortLived.Issue("u1", domain.RoleAdmin, "c1")
		assert.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		r := newRouter(shortLived)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+raw)

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		raw, err := tokens.Issue("u1", domain.RoleEmployee, "c1")
		assert.NoError(t, err)

		r := newRouter(tokens)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+raw)

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "u1")
	})

	t.Run("valid token via cookie", func(t *testing.T) {
		raw, err := tokens.Issue("u2", domain.RoleEmployee, "c1")
		assert.NoError(t, err)

		r := newRouter(tokens)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: raw})

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "u2")
	})
}

func TestRequireRoles(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)

	t.Run("employee is rejected on an admin route", func(t *testing.T) {
		raw, err := tokens.Issue("u1", domain.RoleEmployee, "c1")
		assert.NoError(t, err)

		r := newRouter(tokens, domain.RoleAdmin)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+raw)

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes an admin route", func(t *testing.T) {
		raw, err := tokens.Issue("u1", domain.RoleAdmin, "c1")
		assert.NoError(t, err)

		r := newRouter(tokens, domain.RoleAdmin)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+raw)

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("manager passes a manager-or-admin route", func(t *testing.T) {
		raw, err := tokens.Issue("u1", domain.RoleManager, "c1")
		assert.NoError(t, err)

		r := newRouter(tokens, domain.RoleAdmin, domain.RoleManager)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+raw)

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	gin.SetMode(gin.TestMode)

	newOptionalRouter := func() *gin.Engine {
		r := gin.New()
		r.POST("/register", middleware.OptionalAuth(tokens), func(c *gin.Context) {
			if claims, ok := middleware.GetClaims(c); ok {
				c.JSON(http.StatusOK, gin.H{"caller": claims.UserID})
				return
			}
			c.JSON(http.StatusOK, gin.H{"caller": "anonymous"})
		})
		return r
	}

	t.Run("anonymous request passes through", func(t *testing.T) {
		r := newOptionalRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register", nil)

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "anonymous")
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		raw, err := tokens.Issue("u9", domain.RoleAdmin, "c1")
		assert.NoError(t, err)

		r := newOptionalRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register", nil)
		req.Header.Set("Authorization", "Bearer "+raw)

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "u9")
	})

	t.Run("invalid token stays anonymous", func(t *testing.T) {
		r := newOptionalRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register", nil)
		req.Header.Set("Authorization", "Bearer junk")

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "anonymous")
	})
}
