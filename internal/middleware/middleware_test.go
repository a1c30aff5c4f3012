package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/valvecheck-backend-go/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func operatorEngine(tokens *service.TokenService, required bool) *gin.Engine {
	r := gin.New()
	r.Use(RequireOperator(tokens, required))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, Operator(c))
	})
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireOperator(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, err := tokens.Issue("alice")
	require.NoError(t, err)

	open := operatorEngine(tokens, false)
	w := get(open, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, DefaultOperator, w.Body.String())

	w = get(open, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())

	w = get(open, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	locked := operatorEngine(tokens, true)
	assert.Equal(t, http.StatusUnauthorized, get(locked, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(locked, "Token "+token).Code)
	assert.Equal(t, http.StatusOK, get(locked, "Bearer "+token).Code)
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newLimiter(2, time.Minute, func() time.Time { return now })

	assert.True(t, rl.Allow("ip:1.2.3.4"))
	assert.True(t, rl.Allow("ip:1.2.3.4"))
	assert.False(t, rl.Allow("ip:1.2.3.4"))
	assert.True(t, rl.Allow("ip:5.6.7.8"), "limits are per key")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("ip:1.2.3.4"))

	now = now.Add(2 * time.Minute)
	rl.sweep()
	assert.Empty(t, rl.hits)
}

func TestRateLimit_KeysByOperator(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	alice, err := tokens.Issue("alice")
	require.NoError(t, err)
	bob, err := tokens.Issue("bob")
	require.NoError(t, err)

	r := gin.New()
	r.Use(RateLimitWith(newLimiter(1, time.Minute, time.Now), ClientKey(tokens)))
	r.GET("/whoami", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "Bearer "+alice).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "Bearer "+alice).Code)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+bob).Code, "same IP, different operator")

	// Anonymous and invalid tokens share the IP bucket
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "Bearer garbage").Code)
}

func TestRateLimit_NilTokensKeysByIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitWith(newLimiter(1, time.Minute, time.Now), ClientKey(nil)))
	r.GET("/whoami", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "Bearer anything").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
}
