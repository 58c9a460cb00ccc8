package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAllow_BurstThenRefill(t *testing.T) {
	l := New(4) // burst 2, one token every 15s
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "keys have separate buckets")

	now = now.Add(15 * time.Second)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestAllow_ForgetsIdleKeys(t *testing.T) {
	l := New(2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(idleExpiry + time.Second)
	l.Allow("b")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.entries, "a")
	assert.Contains(t, l.entries, "b")
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := New(2) // burst 1

	r := gin.New()
	r.POST("/upload", l.Middleware(func(c *gin.Context) string { return c.GetHeader("X-Session") }), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(session string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		if session != "" {
			req.Header.Set("X-Session", session)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("s-1").Code)
	w := send("s-1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"message"`)
	assert.Equal(t, http.StatusOK, send("s-2").Code)

	// No session key: the client IP gets its own bucket.
	assert.Equal(t, http.StatusOK, send("").Code)
	assert.Equal(t, http.StatusTooManyRequests, send("").Code)
}
