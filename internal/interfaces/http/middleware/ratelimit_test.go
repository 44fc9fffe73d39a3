package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedRouter(limiter *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(limiter))
	router.GET("/api/v1/portfolio/properties", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func listProperties(router *gin.Engine, orgID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/v1/portfolio/properties", nil)
	req.RemoteAddr = "10.0.0.7:51200"
	if orgID != "" {
		req.Header.Set("X-Org-ID", orgID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowWithinLimit(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("org-riverside"), "call %d should pass", i+1)
	}
}

func TestRateLimiter_BlocksWhenExhausted(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("org-harbor"))
	}

	assert.False(t, limiter.Allow("org-harbor"))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)

	assert.True(t, limiter.Allow("org-riverside"))
	assert.True(t, limiter.Allow("org-riverside"))
	assert.False(t, limiter.Allow("org-riverside"))

	// Exhausting one organization must not touch another.
	assert.True(t, limiter.Allow("org-harbor"))
	assert.True(t, limiter.Allow("org-harbor"))
}

func TestRateLimiter_WindowReset(t *testing.T) {
	limiter := NewRateLimiter(2, 50*time.Millisecond)

	assert.True(t, limiter.Allow("org-riverside"))
	assert.True(t, limiter.Allow("org-riverside"))
	assert.False(t, limiter.Allow("org-riverside"))

	time.Sleep(60 * time.Millisecond)

	assert.True(t, limiter.Allow("org-riverside"))
}

func TestRateLimiter_Remaining(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute)

	assert.Equal(t, 5, limiter.Remaining("org-unseen"))

	limiter.Allow("org-unseen")
	limiter.Allow("org-unseen")

	assert.Equal(t, 3, limiter.Remaining("org-unseen"))
}

func TestRateLimiter_ConcurrentAllow(t *testing.T) {
	limiter := NewRateLimiter(100, time.Minute)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 150; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("org-burst") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowed)
}

func TestRateLimitMiddleware_PassesWithinLimit(t *testing.T) {
	router := newRateLimitedRouter(NewRateLimiter(3, time.Minute))

	for i := 0; i < 3; i++ {
		w := listProperties(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_RejectsWhenExhausted(t *testing.T) {
	router := newRateLimitedRouter(NewRateLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		w := listProperties(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := listProperties(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimitMiddleware_SetsRateLimitHeaders(t *testing.T) {
	router := newRateLimitedRouter(NewRateLimiter(5, time.Minute))

	w := listProperties(router, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitMiddleware_KeyedByOrganization(t *testing.T) {
	router := newRateLimitedRouter(NewRateLimiter(1, time.Minute))

	riverside := "11111111-1111-4111-8111-111111111111"
	harbor := "22222222-2222-4222-8222-222222222222"

	assert.Equal(t, http.StatusOK, listProperties(router, riverside).Code)
	assert.Equal(t, http.StatusTooManyRequests, listProperties(router, riverside).Code)

	// A different organization from the same address gets its own bucket.
	assert.Equal(t, http.StatusOK, listProperties(router, harbor).Code)
}

func TestRateLimitByKey_CustomExtractor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(1, time.Minute)

	router := gin.New()
	router.Use(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.GetHeader("X-Api-Key")
	}))
	router.GET("/api/v1/payments", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	call := func(apiKey string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/api/v1/payments", nil)
		req.Header.Set("X-Api-Key", apiKey)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call("key-riverside").Code)
	assert.Equal(t, http.StatusTooManyRequests, call("key-riverside").Code)
	assert.Equal(t, http.StatusOK, call("key-harbor").Code)
}
