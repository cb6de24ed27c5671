package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("fourth request should be blocked")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("different key should not be affected")
	}
	if l.Remaining("10.0.0.1") != 0 {
		t.Errorf("Remaining = %d, want 0", l.Remaining("10.0.0.1"))
	}

	l.Reset("10.0.0.1")
	if !l.Allow("10.0.0.1") {
		t.Error("request after Reset should be allowed")
	}
}

func TestLoginLimiter_EmailKey(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:4000"

	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(req, "user@example.com"); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if ok, reason := ll.Check(req, "user@example.com"); ok || reason == "" {
		t.Error("third attempt for same email should be blocked with a reason")
	}
	if ok, _ := ll.Check(req, "other@example.com"); !ok {
		t.Error("different email should not be affected")
	}

	ll.ResetEmail("user@example.com")
	if ok, _ := ll.Check(req, "user@example.com"); !ok {
		t.Error("attempt after ResetEmail should be allowed")
	}
}

func TestMiddleware(t *testing.T) {
	l := New(1, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/apply", nil)
	req.RemoteAddr = "10.0.0.9:5000"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: got %d, want 429", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:1234"
	if ip := ClientIP(req); ip != "192.168.1.5" {
		t.Errorf("ClientIP = %q, want %q", ip, "192.168.1.5")
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if ip := ClientIP(req); ip != "203.0.113.9" {
		t.Errorf("ClientIP with XFF = %q, want %q", ip, "203.0.113.9")
	}
}
