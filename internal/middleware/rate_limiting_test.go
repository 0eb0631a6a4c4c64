package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-redis/redis_rate/v9"
	"github.com/stretchr/testify/assert"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/telemetry/metrics"
)

type testRequestRateLimiter struct {
	// key to remaining allowance
	Limits map[string]int
}

func (l *testRequestRateLimiter) Allow(_ context.Context, key string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	res := &redis_rate.Result{}

	foundLimit, ok := l.Limits[key]
	if !ok || foundLimit == 0 {
		return res, nil
	}

	res.Allowed = l.Limits[key]
	l.Limits[key]--

	return res, nil
}

func TestRateLimit(t *testing.T) {
	// httptest requests come from 192.0.2.1
	limiter := &testRequestRateLimiter{
		Limits: map[string]int{"login:192.0.2.1": 2},
	}

	handler := RateLimit(limiter, "login", 2, metrics.NewTestManager())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/user/token", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/user/token", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimit_PerClient(t *testing.T) {
	limiter := &testRequestRateLimiter{
		Limits: map[string]int{
			"login:192.0.2.1":   0,
			"login:203.0.113.9": 1,
		},
	}

	handler := RateLimit(limiter, "login", 1, metrics.NewTestManager())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/user/token", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// another client is unaffected
	req := httptest.NewRequest("POST", "/user/token", nil)
	req.Header.Set("X-Real-Ip", "203.0.113.9")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
