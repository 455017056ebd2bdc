package main

import (
	"time"
)

// FPSLimiter paces the frame loop with a hybrid sleep/spin wait. Plain
// time.Sleep alone overshoots by a scheduler quantum, which is visible at
// high caps.
type FPSLimiter struct {
	cap  int
	next time.Time
}

// NewFPSLimiter creates a limiter for the given frame cap. A cap of 0 or
// less disables pacing.
func NewFPSLimiter(cap int) *FPSLimiter {
	return &FPSLimiter{cap: cap}
}

// Wait blocks until the next frame is due.
func (f *FPSLimiter) Wait() {
	if f.cap <= 0 {
		return
	}

	target := time.Second / time.Duration(f.cap)

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		// busy-wait for the final few microseconds
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// If we're significantly late (e.g., hitch), resync to avoid drift
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
