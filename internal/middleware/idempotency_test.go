package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-accounts/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newIdempotentRouter(rdb *redis.Client, handlerCalls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/create", middleware.Idempotency(rdb), func(c *gin.Context) {
		*handlerCalls++
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return r
}

func TestIdempotency(t *testing.T) {
	const (
		cacheKey = "idemp:/create::key-123"
		lockKey  = cacheKey + ":lock"
	)

	t.Run("no header passes through untouched", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0
		r := newIdempotentRouter(rdb, &calls)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/create", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first request runs the handler and caches the response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		encoded, err := json.Marshal(struct {
			Status int             `json:"status"`
			Body   json.RawMessage `json:"body"`
		}{Status: http.StatusCreated, Body: json.RawMessage(`{"ok":true}`)})
		assert.NoError(t, err)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, encoded, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		calls := 0
		r := newIdempotentRouter(rdb, &calls)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/create", nil)
		req.Header.Set("Idempotency-Key", "key-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated key replays the cached response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		cached, err := json.Marshal(struct {
			Status int             `json:"status"`
			Body   json.RawMessage `json:"body"`
		}{Status: http.StatusCreated, Body: json.RawMessage(`{"ok":true}`)})
		assert.NoError(t, err)

		mock.ExpectGet(cacheKey).SetVal(string(cached))

		calls := 0
		r := newIdempotentRouter(rdb, &calls)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/create", nil)
		req.Header.Set("Idempotency-Key", "key-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, `{"ok":true}`, w.Body.String())
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in-flight duplicate is rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		calls := 0
		r := newIdempotentRouter(rdb, &calls)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/create", nil)
		req.Header.Set("Idempotency-Key", "key-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
