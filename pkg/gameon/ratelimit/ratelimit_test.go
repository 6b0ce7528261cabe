package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("test") {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeysAreIndependent(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	if !rl.Allow("a") || rl.Allow("a") {
		t.Fatal("Expected key a to pass once then block")
	}
	if !rl.Allow("b") {
		t.Error("Expected key b to have its own bucket")
	}
}

func TestSweepDropsIdleKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow("old")

	now = now.Add(DefaultIdleTTL / 2)
	rl.Allow("recent")

	now = now.Add(DefaultIdleTTL/2 + time.Second)
	rl.sweep()

	if rl.Len() != 1 {
		t.Fatalf("Expected 1 key after sweep, got %d", rl.Len())
	}
	// "old" was dropped, so it starts with a full bucket again
	if !rl.Allow("old") {
		t.Error("Expected a fresh bucket for a swept key")
	}
}

func TestMiddleware(t *testing.T) {
	rl := New(1, 2)
	defer rl.Stop()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(rl))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	var last *httptest.ResponseRecorder
	for i := range codes {
		req, _ := http.NewRequest("GET", "/ping", nil)
		last = httptest.NewRecorder()
		r.ServeHTTP(last, req)
		codes[i] = last.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected 200, 200, 429, got %v", codes)
	}
	if last.Header().Get("Retry-After") != "1" {
		t.Errorf("Expected Retry-After header, got %q", last.Header().Get("Retry-After"))
	}
}
