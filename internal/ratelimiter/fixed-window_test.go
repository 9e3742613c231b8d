package ratelimiter

import (
	"testing"
	"time"
)

func TestFixedWindowLimiter(t *testing.T) {
	rl := NewFixedWindowLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if allowed, _ := rl.Allow("10.0.0.1"); !allowed {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}

	allowed, retryAfter := rl.Allow("10.0.0.1")
	if allowed {
		t.Fatal("request over the limit allowed")
	}
	if retryAfter != time.Minute {
		t.Fatalf("retry after = %v, want %v", retryAfter, time.Minute)
	}

	// Another client has its own window.
	if allowed, _ := rl.Allow("10.0.0.2"); !allowed {
		t.Fatal("separate client denied")
	}
}
