package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, cfg ServerConfig) *Server {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Engine == nil {
		cfg.Engine = &stubEngine{}
	}
	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	return srv
}

func TestNewServerRequiresEngine(t *testing.T) {
	_, err := NewServer(ServerConfig{})
	if err == nil {
		t.Error("expected error for missing engine")
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, ServerConfig{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestReadyEndpointWithoutPool(t *testing.T) {
	srv := newTestServer(t, ServerConfig{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestChatRouteMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, ServerConfig{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, ServerConfig{})

	r := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"q"}`))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)

	if got := w.Header().Get("X-Request-ID"); got == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestRateLimiting(t *testing.T) {
	srv := newTestServer(t, ServerConfig{RateLimit: 0.001, RateBurst: 2})

	status := func() int {
		r := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"q"}`))
		r.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, r)
		return w.Code
	}

	if got := status(); got != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", got)
	}
	if got := status(); got != http.StatusOK {
		t.Fatalf("second request status = %d, want 200", got)
	}
	if got := status(); got != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", got)
	}

	// A different IP gets its own bucket
	r := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"q"}`))
	r.RemoteAddr = "203.0.113.8:1234"
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", w.Code)
	}
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := newRateLimiter(0, 0)

	if rl.limit != defaultRefillPerSecond {
		t.Errorf("limit = %v, want %v", rl.limit, defaultRefillPerSecond)
	}
	if rl.burst != defaultBurst {
		t.Errorf("burst = %d, want %d", rl.burst, defaultBurst)
	}
	if !rl.allow("203.0.113.9") {
		t.Error("first request should be allowed under defaults")
	}
}

func TestHealthEndpointBypassesRateLimit(t *testing.T) {
	srv := newTestServer(t, ServerConfig{RateLimit: 0.001, RateBurst: 1})

	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.RemoteAddr = "203.0.113.9:1234"
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("health request %d status = %d, want 200", i, w.Code)
		}
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	inner := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	handler := recoveryMiddleware(logger)(inner)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xRealIP    string
		xff        string
		trustProxy bool
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "192.0.2.1:5000",
			want:       "192.0.2.1",
		},
		{
			name:       "proxy headers ignored without trust",
			remoteAddr: "192.0.2.1:5000",
			xRealIP:    "198.51.100.1",
			want:       "192.0.2.1",
		},
		{
			name:       "x-real-ip trusted",
			remoteAddr: "192.0.2.1:5000",
			xRealIP:    "198.51.100.1",
			trustProxy: true,
			want:       "198.51.100.1",
		},
		{
			name:       "x-forwarded-for first hop",
			remoteAddr: "192.0.2.1:5000",
			xff:        "198.51.100.2, 192.0.2.50",
			trustProxy: true,
			want:       "198.51.100.2",
		},
		{
			name:       "garbage header falls back",
			remoteAddr: "192.0.2.1:5000",
			xRealIP:    "not-an-ip",
			trustProxy: true,
			want:       "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xRealIP != "" {
				r.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}

			if got := clientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
