package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow("https://factcheck.example.org/review/1") {
		t.Error("first request should be allowed")
	}
	if !l.Allow("https://factcheck.example.org/review/2") {
		t.Error("second request should be within burst")
	}
	if l.Allow("https://factcheck.example.org/review/3") {
		t.Error("third request should exceed burst")
	}
}

func TestLimiter_HostsAreIndependent(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("https://a.example.org/x") {
		t.Error("host a should be allowed")
	}
	if !l.Allow("https://b.example.org/x") {
		t.Error("host b has its own bucket")
	}
	if l.Allow("https://a.example.org/y") {
		t.Error("host a should be throttled")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetHostRate("slow.example.org", 0.1, 1)

	if !l.Allow("https://slow.example.org/a") {
		t.Error("first request should be allowed")
	}
	if l.Allow("https://slow.example.org/b") {
		t.Error("second request should be throttled at 0.1 rps")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.01, 1)

	// Exhaust the bucket.
	if err := l.Wait(context.Background(), "https://c.example.org/"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "https://c.example.org/"); err == nil {
		t.Error("expected context error while throttled")
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	l := NewLimiter(1, 1)
	if l.Allow("://not-a-url") {
		t.Error("unparseable URL should not be allowed")
	}
}
