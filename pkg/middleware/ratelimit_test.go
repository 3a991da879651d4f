package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/pkg/logger"
)

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("test", "info", &buf)
	h := RateLimit(RateLimitConfig{RPS: 1, Burst: 2}, l)(http.HandlerFunc(okHandler))

	do := func(session string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
		req.Header.Set(SessionHeader, session)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("tab-1").Code)
	assert.Equal(t, http.StatusOK, do("tab-1").Code)

	rec := do("tab-1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	var body map[string]map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "RATE_LIMITED", body["error"]["code"])
	assert.Contains(t, buf.String(), "rate limit exceeded")

	// Buckets are per session.
	assert.Equal(t, http.StatusOK, do("tab-2").Code)
}

func TestRateLimit_DisabledWhenRPSZero(t *testing.T) {
	h := RateLimit(RateLimitConfig{}, logger.New("test", "error"))(http.HandlerFunc(okHandler))
	for range 20 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestLimiterSet_RefillsAndSweeps(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	set := newLimiterSet(RateLimitConfig{RPS: 1, Burst: 1, IdleTTL: time.Minute})
	set.now = func() time.Time { return now }

	assert.True(t, set.allow("a"))
	assert.False(t, set.allow("a"))

	now = now.Add(time.Second)
	assert.True(t, set.allow("a"))
	assert.True(t, set.allow("b"))
	assert.Equal(t, 2, set.len())

	now = now.Add(2 * time.Minute)
	assert.True(t, set.allow("c"))
	assert.Equal(t, 1, set.len())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, remote: "1.1.1.1:80", want: "10.0.0.1"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "10.0.0.3"}, remote: "1.1.1.1:80", want: "10.0.0.3"},
		{name: "remote addr", remote: "192.168.1.5:5555", want: "192.168.1.5"},
		{name: "garbage forwarded", headers: map[string]string{"X-Forwarded-For": "nope"}, remote: "192.168.1.6:1", want: "192.168.1.6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
