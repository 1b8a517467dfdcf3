// Package coarsetime provides a clock refreshed every 50ms, for timestamps
// taken on every command where a syscall per call is not worth it.
package coarsetime

import (
	"sync/atomic"
	"time"
)

const tick = 50 * time.Millisecond

var now atomic.Pointer[time.Time]

func init() {
	t := time.Now()
	now.Store(&t)

	ticker := time.NewTicker(tick)
	go func() {
		for t := range ticker.C {
			now.Store(&t)
		}
	}()
}

// Now returns the current time, at most one tick old.
func Now() time.Time {
	return *now.Load()
}

// Since returns the time elapsed since t, measured on the coarse clock.
func Since(t time.Time) time.Duration {
	return Now().Sub(t)
}
