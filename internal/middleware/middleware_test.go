package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/landchain-labs/registry-gateway/internal/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterThrottles(t *testing.T) {
	rl := NewRateLimiter(1, 2, logging.New("test"))
	handler := rl.Handler(okHandler())

	statuses := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/total-supply", nil)
		req.RemoteAddr = "10.0.0.1:55555"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
		statuses = append(statuses, last.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("burst requests rejected: %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %v", statuses)
	}

	// The 429 body is the standard error envelope.
	body := last.Body.String()
	if gjson.Get(body, "success").Bool() {
		t.Fatalf("expected failure envelope: %s", body)
	}
	if got := gjson.Get(body, "error.code").String(); got != "RATE_LIMITED" {
		t.Fatalf("expected RATE_LIMITED, got %q", got)
	}
	if got := gjson.Get(body, "error.endpoint").String(); got != "/api/v1/total-supply" {
		t.Fatalf("unexpected endpoint %q", got)
	}
	if _, err := time.Parse(time.RFC3339, gjson.Get(body, "error.timestamp").String()); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/total-supply", nil)
	req.RemoteAddr = "10.0.0.2:55555"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("second client throttled: %d", resp.Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1, logging.New("test"))
	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")

	rl.Cleanup(0)

	rl.mu.Lock()
	remaining := len(rl.limiters)
	rl.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected idle limiters dropped, %d left", remaining)
	}
}

func TestCORSHeaders(t *testing.T) {
	cors := NewCORS([]string{"https://app.example"})
	handler := cors.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("expected origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://app.example")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("preflight expected 204, got %d", resp.Code)
	}
}

func TestCORSSuffixMatchesOnDotBoundary(t *testing.T) {
	cors := NewCORS([]string{"example.com"})
	handler := cors.Handler(okHandler())

	send := func(origin string) string {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", origin)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp.Header().Get("Access-Control-Allow-Origin")
	}

	if got := send("app.example.com"); got != "app.example.com" {
		t.Fatalf("subdomain rejected: %q", got)
	}
	if got := send("example.com"); got != "example.com" {
		t.Fatalf("exact origin rejected: %q", got)
	}
	if got := send("evil-example.com"); got != "" {
		t.Fatalf("lookalike origin allowed: %q", got)
	}
}

func TestLoggingAssignsTraceID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.TraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Logging(logging.New("test"))(inner)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen == "" {
		t.Fatal("trace ID missing from request context")
	}
	if got := resp.Header().Get("X-Trace-ID"); got != seen {
		t.Fatalf("header %q does not match context %q", got, seen)
	}

	// A caller-supplied trace ID is kept.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Trace-ID", "caller-trace")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if seen != "caller-trace" {
		t.Fatalf("caller trace ID replaced: %q", seen)
	}
}
