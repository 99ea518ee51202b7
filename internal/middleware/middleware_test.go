package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/lottery-miniapp-api/internal/auth"
	"github.com/baharkarakas/lottery-miniapp-api/internal/view"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestID_GeneratesUUID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_HonoursInbound(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abc-123", seen)
}

func TestRecover_RendersFallback(t *testing.T) {
	h := RequestID(Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body view.Fallback
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, view.NewFallback("rid-1"), body)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRecover_PassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	Recover(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMemoryLimiter_PerKey(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewMemoryLimiter(2)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "a"))
	assert.True(t, l.Allow(ctx, "a"))
	assert.False(t, l.Allow(ctx, "a"))
	assert.True(t, l.Allow(ctx, "b"), "other clients keep their own budget")

	now = now.Add(time.Second)
	assert.True(t, l.Allow(ctx, "a"))
}

func TestMemoryLimiter_Sweep(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewMemoryLimiter(1)
	l.now = func() time.Time { return now }
	l.Allow(context.Background(), "a")

	now = now.Add(time.Hour)
	l.Sweep(time.Minute)
	assert.Empty(t, l.buckets)
}

func TestRateLimit_Rejects(t *testing.T) {
	l := NewMemoryLimiter(1)
	h := RateLimit(l)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	first := httptest.NewRecorder()
	h.ServeHTTP(first, req)
	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimit_NilDisables(t *testing.T) {
	h := RateLimit(nil)(okHandler)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:1234"
	assert.Equal(t, "192.0.2.7", clientKey(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "192.0.2.7", clientKey(req), "forwarding headers are ignored")
}

func TestAuth(t *testing.T) {
	tm := auth.NewTokenManager("a", "r", "test", time.Minute, time.Hour)
	pair, err := tm.GeneratePair("acc-9", 99)
	require.NoError(t, err)

	var got Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFrom(r.Context())
	})

	tests := []struct {
		name   string
		env    string
		header string
		status int
		want   Principal
	}{
		{"access token", "prod", "Bearer " + pair.AccessToken, http.StatusOK, Principal{AccountID: "acc-9", TelegramID: 99}},
		{"lowercase scheme", "prod", "bearer " + pair.AccessToken, http.StatusOK, Principal{AccountID: "acc-9", TelegramID: 99}},
		{"refresh token", "prod", "Bearer " + pair.RefreshToken, http.StatusUnauthorized, Principal{}},
		{"missing", "prod", "", http.StatusUnauthorized, Principal{}},
		{"dev shortcut", "dev", "Bearer dev-acc-1", http.StatusOK, Principal{AccountID: "acc-1"}},
		{"dev shortcut outside dev", "prod", "Bearer dev-acc-1", http.StatusUnauthorized, Principal{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = Principal{}
			h := NewAuthMiddleware(tm, tt.env).Auth(inner)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPMetrics_RecordsStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(HTTPMetrics)
	r.Get("/teapot", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
