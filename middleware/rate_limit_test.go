package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSubmissionLimiter implements services.SubmissionLimiter for middleware tests.
type MockSubmissionLimiter struct {
	mock.Mock
}

func (m *MockSubmissionLimiter) Allow(ctx context.Context, clientKey string, limit int, window time.Duration) (bool, time.Duration, error) {
	args := m.Called(ctx, clientKey, limit, window)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func buildRateLimitedRouter(limiter *MockSubmissionLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/submit", SubmissionRateLimiter(limiter, 5, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return r
}

func TestSubmissionRateLimiterAllows(t *testing.T) {
	limiter := new(MockSubmissionLimiter)
	limiter.On("Allow", mock.Anything, mock.Anything, 5, time.Minute).
		Return(true, time.Duration(0), nil)

	r := buildRateLimitedRouter(limiter)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSubmissionRateLimiterBlocks(t *testing.T) {
	limiter := new(MockSubmissionLimiter)
	limiter.On("Allow", mock.Anything, mock.Anything, 5, time.Minute).
		Return(false, 42*time.Second, nil)

	r := buildRateLimitedRouter(limiter)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "42", w.Header().Get("Retry-After"))
}

func TestSubmissionRateLimiterNegativeRetryClampedToZero(t *testing.T) {
	limiter := new(MockSubmissionLimiter)
	limiter.On("Allow", mock.Anything, mock.Anything, 5, time.Minute).
		Return(false, time.Duration(-1), nil)

	r := buildRateLimitedRouter(limiter)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("Retry-After"))
}

func TestSubmissionRateLimiterFailsOpen(t *testing.T) {
	limiter := new(MockSubmissionLimiter)
	limiter.On("Allow", mock.Anything, mock.Anything, 5, time.Minute).
		Return(false, time.Duration(0), assert.AnError)

	r := buildRateLimitedRouter(limiter)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSubmissionRateLimiterKeysByClientIP(t *testing.T) {
	limiter := new(MockSubmissionLimiter)
	limiter.On("Allow", mock.Anything, "192.0.2.10", 5, time.Minute).
		Return(true, time.Duration(0), nil)

	r := buildRateLimitedRouter(limiter)
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	limiter.AssertExpectations(t)
}
