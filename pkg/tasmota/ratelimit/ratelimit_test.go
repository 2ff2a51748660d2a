package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitSpacesCommands(t *testing.T) {
	l := New(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	if err := l.Wait(ctx, "dev1"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 25*time.Millisecond {
		t.Errorf("first call blocked for %v", elapsed)
	}

	start = time.Now()
	if err := l.Wait(ctx, "dev1"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("second call waited %v, want >= interval", elapsed)
	}
}

func TestWaitPerDevice(t *testing.T) {
	l := New(time.Second)
	ctx := context.Background()

	if err := l.Wait(ctx, "dev1"); err != nil {
		t.Fatal(err)
	}

	// Another device is not paced by the first one's send.
	start := time.Now()
	if err := l.Wait(ctx, "dev2"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("other device blocked for %v", elapsed)
	}
}

func TestWaitCancelledContext(t *testing.T) {
	l := New(time.Minute)
	if err := l.Wait(context.Background(), "dev1"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := l.Wait(ctx, "dev1")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("cancelled wait still blocked for %v", elapsed)
	}
}

func TestWaitNeverBlocksWhenDisabled(t *testing.T) {
	ctx := context.Background()

	var nilLimiter *Limiter
	if err := nilLimiter.Wait(ctx, "dev1"); err != nil {
		t.Errorf("nil limiter: %v", err)
	}
	if got := nilLimiter.MinInterval(); got != 0 {
		t.Errorf("nil limiter interval = %v, want 0", got)
	}

	l := New(0)
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "dev1"); err != nil {
			t.Errorf("zero-interval limiter: %v", err)
		}
	}
}
