package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedEngine(perMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/submit", RateLimitMiddleware(perMinute), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	return r
}

func submitFrom(r http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddleware(t *testing.T) {
	// burst is perMinute/2
	r := limitedEngine(4)

	assert.Equal(t, http.StatusNoContent, submitFrom(r, "10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, submitFrom(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, submitFrom(r, "10.0.0.1"))

	// buckets are per client
	assert.Equal(t, http.StatusNoContent, submitFrom(r, "10.0.0.2"))
}

func TestRateLimitDisabled(t *testing.T) {
	r := limitedEngine(0)
	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusNoContent, submitFrom(r, "10.0.0.1"))
	}
}
