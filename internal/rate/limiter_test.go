package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterAllowsUpToLimit(t *testing.T) {
	limiter := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := limiter.Allow(ctx, "login:1.2.3.4", 3, time.Minute)
		if err != nil || !ok {
			t.Fatalf("Request %d should be allowed (ok=%v err=%v)", i+1, ok, err)
		}
	}

	ok, retry, err := limiter.Allow(ctx, "login:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if ok {
		t.Fatal("Fourth request should be rejected")
	}
	if retry <= 0 || retry > time.Minute {
		t.Errorf("Unexpected retry-after %v", retry)
	}

	// Other keys are independent
	if ok, _, _ := limiter.Allow(ctx, "login:5.6.7.8", 3, time.Minute); !ok {
		t.Error("Different key should be allowed")
	}
}

func TestMemoryLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewMemory()
	now := time.Now()
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	limiter.Allow(ctx, "k", 1, time.Second)
	if ok, _, _ := limiter.Allow(ctx, "k", 1, time.Second); ok {
		t.Fatal("Second request inside the window should be rejected")
	}

	now = now.Add(2 * time.Second)
	if ok, _, _ := limiter.Allow(ctx, "k", 1, time.Second); !ok {
		t.Fatal("Request after the window should be allowed")
	}
}
