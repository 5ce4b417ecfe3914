// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package schedule decides when the next frame is due.
//
// A Scheduler is either idle (now < next) or armed to fire (now >= next).
// The caller polls Due and, after dispatching a frame, calls Rearm which
// moves the due time to now + interval. There is no timer channel: ticks
// are never coalesced or skipped, only delayed by one poll iteration.
package schedule

import "time"

// Clock is the time source polled by the Scheduler.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. time.Now carries a monotonic reading,
// so comparisons are immune to wall-clock steps.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler owns the next-due timestamp. It is not safe for concurrent use.
type Scheduler struct {
	clock    Clock
	interval time.Duration
	next     time.Time
}

// New returns a Scheduler whose first tick is due immediately.
// A zero interval fires on every poll.
func New(clock Clock, interval time.Duration) *Scheduler {
	if interval < 0 {
		interval = 0
	}
	return &Scheduler{
		clock:    clock,
		interval: interval,
		next:     clock.Now(),
	}
}

// Due reports whether the current time has reached the due timestamp.
func (s *Scheduler) Due() bool {
	return !s.clock.Now().Before(s.next)
}

// Rearm sets the next due time to now + interval. Call it once after each
// dispatched frame.
func (s *Scheduler) Rearm() {
	s.next = s.clock.Now().Add(s.interval)
}

// Next returns the current due timestamp.
func (s *Scheduler) Next() time.Time { return s.next }

// Interval returns the configured send interval.
func (s *Scheduler) Interval() time.Duration { return s.interval }
