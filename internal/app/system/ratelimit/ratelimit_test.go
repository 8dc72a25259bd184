package ratelimit_test

import (
	"testing"
	"time"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/ratelimit"
)

func TestAllowWithinLimit(t *testing.T) {
	l := ratelimit.New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("fourth attempt should be rejected")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := ratelimit.New(1, time.Minute)

	if !l.Allow("alice") {
		t.Fatal("first attempt for alice should be allowed")
	}
	if !l.Allow("bob") {
		t.Error("bob's window is independent of alice's")
	}
	if l.Allow("alice") {
		t.Error("alice is over her limit")
	}
}

func TestWindowExpiry(t *testing.T) {
	l := ratelimit.New(1, 20*time.Millisecond)

	if !l.Allow("k") {
		t.Fatal("first attempt should be allowed")
	}
	if l.Allow("k") {
		t.Fatal("second attempt inside the window should be rejected")
	}

	time.Sleep(30 * time.Millisecond)

	if !l.Allow("k") {
		t.Error("attempt after window expiry should be allowed")
	}
}

func TestRetryAfter(t *testing.T) {
	l := ratelimit.New(1, time.Minute)

	if got := l.RetryAfter("k"); got != 0 {
		t.Errorf("unknown key retry-after: got %v, want 0", got)
	}

	l.Allow("k")
	if got := l.RetryAfter("k"); got != 0 {
		t.Errorf("under-limit retry-after: got %v, want 0", got)
	}

	l.Allow("k") // rejected, window now saturated
	if got := l.RetryAfter("k"); got <= 0 || got > time.Minute {
		t.Errorf("retry-after out of range: %v", got)
	}
}
