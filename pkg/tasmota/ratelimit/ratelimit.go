package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces commands to a device by at least a minimum interval.
// Tasmota's embedded web server handles one request at a time and quietly
// drops overlapping /cm calls, so orchestration sequences that fire several
// writes back to back need pacing.
type Limiter struct {
	minInterval time.Duration
	devices     sync.Map // device id -> *deviceGate
}

type deviceGate struct {
	mu       sync.Mutex
	lastSend time.Time
}

// New returns a limiter enforcing interval between command starts per
// device. interval <= 0 disables pacing.
func New(interval time.Duration) *Limiter {
	return &Limiter{minInterval: interval}
}

// Wait blocks until a command may be sent to the given device, measuring
// from when the previous command started. It returns early if ctx is done.
// A nil limiter never blocks.
func (l *Limiter) Wait(ctx context.Context, deviceId string) error {
	if l == nil || l.minInterval <= 0 {
		return nil
	}

	gate := l.gate(deviceId)
	gate.mu.Lock()
	defer gate.mu.Unlock()

	elapsed := time.Since(gate.lastSend)
	if elapsed < l.minInterval {
		timer := time.NewTimer(l.minInterval - elapsed)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	// Stamped under the mutex so queued callers measure from this send.
	gate.lastSend = time.Now()
	return nil
}

func (l *Limiter) gate(deviceId string) *deviceGate {
	if g, ok := l.devices.Load(deviceId); ok {
		return g.(*deviceGate)
	}
	actual, _ := l.devices.LoadOrStore(deviceId, &deviceGate{})
	return actual.(*deviceGate)
}

// MinInterval reports the configured spacing.
func (l *Limiter) MinInterval() time.Duration {
	if l == nil {
		return 0
	}
	return l.minInterval
}
