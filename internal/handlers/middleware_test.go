package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mosesoghene/whats-app-group-export/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		header   string
		wantCode int
	}{
		{"no token configured", "", "", 200},
		{"missing header", "secret", "", 401},
		{"wrong token", "secret", "Bearer nope", 401},
		{"correct token", "secret", "Bearer secret", 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.RuntimeConfig{Token: tt.token}
			h := AuthMiddleware(cfg, okHandler())

			req := httptest.NewRequest("GET", "/status", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	h := RequestIDMiddleware(okHandler())

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/status", nil))
		if w.Header().Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id")
		}
	})

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/status", nil)
		req.Header.Set("X-Request-Id", "caller-id")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if got := w.Header().Get("X-Request-Id"); got != "caller-id" {
			t.Errorf("X-Request-Id = %q", got)
		}
	})
}

func TestCorsMiddleware(t *testing.T) {
	h := CorsMiddleware(okHandler())

	t.Run("preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/export", nil))
		if w.Code != 204 {
			t.Errorf("status = %d, want 204", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("missing CORS headers")
		}
	})

	t.Run("passthrough", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/status", nil))
		if w.Code != 200 {
			t.Errorf("status = %d", w.Code)
		}
	})
}

func TestLoggingMiddlewareCountsRequests(t *testing.T) {
	total := atomic.LoadUint64(&metricRequestsTotal)
	failed := atomic.LoadUint64(&metricRequestsFailed)

	ok := LoggingMiddleware(okHandler())
	bad := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))

	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/status", nil))
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/status", nil))
	bad.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/status", nil))

	snap := snapshotMetrics()
	if got := snap["requestsTotal"].(uint64); got < total+3 {
		t.Errorf("requestsTotal = %d, want at least %d", got, total+3)
	}
	if got := snap["requestsFailed"].(uint64); got < failed+1 {
		t.Errorf("requestsFailed = %d, want at least %d", got, failed+1)
	}
}

func TestRateLimitSkipsHealth(t *testing.T) {
	h := RateLimitMiddleware(okHandler())
	for _, path := range []string{"/health", "/metrics"} {
		for i := 0; i < 200; i++ {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
			if w.Code != 200 {
				t.Fatalf("%s rate limited on request %d", path, i)
			}
		}
	}
}
