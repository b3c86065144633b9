package ratelimit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAllowBurstThenReject(t *testing.T) {
	l := New(60) // burst of 6

	for i := 0; i < 6; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("expected request beyond burst to be rejected")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("expected a different client to have its own bucket")
	}
}

func TestDisabled(t *testing.T) {
	l := New(0)
	for i := 0; i < 100; i++ {
		if !l.Allow("k") {
			t.Fatal("disabled limiter should allow everything")
		}
	}
}

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.0.2.50 "})
	if err != nil {
		t.Fatalf("ParseTrustedProxies: %v", err)
	}

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"no port", nil, "192.0.2.9", "192.0.2.9"},
		{"untrusted peer ignores forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.5"}, "198.51.100.1:80", "198.51.100.1"},
		{"untrusted peer ignores real ip", map[string]string{"X-Real-IP": "203.0.113.5"}, "198.51.100.1:80", "198.51.100.1"},
		{"trusted proxy forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.5"}, "10.0.0.1:80", "203.0.113.5"},
		{"trusted chain skips proxies", map[string]string{"X-Forwarded-For": "1.2.3.4, 203.0.113.5, 10.1.1.1"}, "192.0.2.50:80", "203.0.113.5"},
		{"trusted proxy real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.1:80", "198.51.100.7"},
		{"trusted proxy garbage header", map[string]string{"X-Forwarded-For": "not-an-ip"}, "10.0.0.1:80", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, trusted); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTrustedProxiesInvalid(t *testing.T) {
	for _, entry := range []string{"10.0.0.0/99", "proxy.local"} {
		if _, err := ParseTrustedProxies([]string{entry}); err == nil {
			t.Errorf("expected error for %q", entry)
		}
	}
}

func TestSpoofedForwardedForSharesBucket(t *testing.T) {
	l := New(10) // burst of 1, no trusted proxies
	h := l.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	admitted := 0
	for i := range 50 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.1:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			admitted++
		}
	}
	if admitted != 1 {
		t.Errorf("expected 1 admitted request, got %d", admitted)
	}
}

func TestTrustedProxyKeepsClientsApart(t *testing.T) {
	trusted, _ := ParseTrustedProxies([]string{"10.0.0.1"})
	l := New(10, trusted...)

	for _, client := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "10.0.0.1:443"
		req.Header.Set("X-Forwarded-For", client)
		if !l.Allow(l.ClientIP(req)) {
			t.Errorf("expected first request from %s to be allowed", client)
		}
	}
}

func TestMiddleware(t *testing.T) {
	l := New(10) // burst of 1
	h := l.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 2)
	for i := range codes {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.1:5555"
		h.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("expected [200 429], got %v", codes)
	}
}
