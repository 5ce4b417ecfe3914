// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFirstTickDueImmediately(t *testing.T) {
	clk := &fakeClock{now: epoch}
	s := New(clk, time.Second)

	assert.True(t, s.Due())
	assert.Equal(t, epoch, s.Next())
}

func TestNoFireBeforeDue(t *testing.T) {
	clk := &fakeClock{now: epoch}
	s := New(clk, time.Second)
	require.True(t, s.Due())
	s.Rearm()

	for i := 0; i < 999; i++ {
		clk.Advance(time.Millisecond)
		require.False(t, s.Due(), "fired early at +%dms", i+1)
	}
	clk.Advance(time.Millisecond)
	assert.True(t, s.Due(), "should fire exactly at the due time")
}

func TestOneFirePerInterval(t *testing.T) {
	clk := &fakeClock{now: epoch}
	interval := 250 * time.Millisecond
	s := New(clk, interval)

	fires := 0
	var fireTimes []time.Time
	for i := 0; i < 1000; i++ { // 1s in 1ms steps
		if s.Due() {
			fires++
			fireTimes = append(fireTimes, clk.Now())
			prev := s.Next()
			s.Rearm()
			require.Equal(t, interval, s.Next().Sub(clk.Now()))
			require.False(t, s.Next().Before(prev))
		}
		clk.Advance(time.Millisecond)
	}

	assert.Equal(t, 4, fires)
	for i := 1; i < len(fireTimes); i++ {
		assert.Equal(t, interval, fireTimes[i].Sub(fireTimes[i-1]))
	}
}

func TestRearmAdvancesByExactlyInterval(t *testing.T) {
	clk := &fakeClock{now: epoch}
	s := New(clk, 1500*time.Millisecond)

	for i := 0; i < 5; i++ {
		clk.now = s.Next()
		require.True(t, s.Due())
		before := s.Next()
		s.Rearm()
		assert.Equal(t, 1500*time.Millisecond, s.Next().Sub(before))
	}
}

func TestZeroIntervalFiresEveryPoll(t *testing.T) {
	clk := &fakeClock{now: epoch}
	s := New(clk, 0)

	for i := 0; i < 100; i++ {
		require.True(t, s.Due(), "iteration %d", i)
		s.Rearm()
	}
}

func TestNegativeIntervalTreatedAsZero(t *testing.T) {
	s := New(&fakeClock{now: epoch}, -time.Second)
	assert.Equal(t, time.Duration(0), s.Interval())
}

func TestSystemClockIsMonotonicEnough(t *testing.T) {
	s := New(SystemClock{}, 0)
	assert.True(t, s.Due())
}
