package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	limiter := NewLimiter(3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected inside the limit", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("request over the limit was allowed")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	limiter := NewLimiter(1)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first key rejected")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Error("second key shares the first key's budget")
	}
}

func TestWindowResets(t *testing.T) {
	limiter := NewLimiter(2)
	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.1")
	if limiter.Allow("10.0.0.1") {
		t.Fatal("third request allowed inside the window")
	}

	// One second before the boundary the window still holds.
	limiter.now = func() time.Time { return base.Add(WindowLength - time.Second) }
	if limiter.Allow("10.0.0.1") {
		t.Error("budget refreshed before the window elapsed")
	}

	// At the boundary a fresh window starts.
	limiter.now = func() time.Time { return base.Add(WindowLength) }
	if !limiter.Allow("10.0.0.1") {
		t.Error("budget not refreshed after the window elapsed")
	}
}
