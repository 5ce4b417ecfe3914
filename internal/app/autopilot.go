// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/relabs-tech/autopilot_spoofer/internal/schedule"
	"github.com/relabs-tech/autopilot_spoofer/internal/sim"
	"github.com/relabs-tech/autopilot_spoofer/internal/status"
	"github.com/relabs-tech/autopilot_spoofer/internal/transport"
)

// FrameAssembler builds the wire frame for one simulated state.
type FrameAssembler interface {
	Assemble(pos sim.Position, serial string, pilot sim.Position, heading int) ([]byte, error)
}

// Autopilot is everything the transmit loop needs for one run.
type Autopilot struct {
	Serial string
	Start  sim.Position
	Pilot  sim.Position

	Walker    *sim.Walker
	Scheduler *schedule.Scheduler
	Clock     schedule.Clock
	Assembler FrameAssembler

	// OpenTransport is called once; the Sender it returns is closed
	// exactly once when Run returns.
	OpenTransport func() (transport.Sender, error)
	Sinks         []status.Sink

	// PollYield pauses idle polls. Zero only yields the processor.
	PollYield time.Duration

	Log zerolog.Logger
}

// Run transmits until ctx is cancelled or the transport fails.
// Cancellation is checked between ticks, never during a send, and is a
// normal return (nil). Transport and frame errors are returned as is,
// without retry.
func (a *Autopilot) Run(ctx context.Context) error {
	tr, err := a.OpenTransport()
	if err != nil {
		return fmt.Errorf("open transport: %w", err)
	}
	defer func() {
		if err := tr.Close(); err != nil {
			a.Log.Warn().Err(err).Msg("transport close")
		}
	}()

	state := sim.NewState(a.Start)
	var seq uint64

	for {
		select {
		case <-ctx.Done():
			a.Log.Info().Uint64("sent", seq).Msg("interrupted, shutting down")
			return nil
		default:
		}

		if !a.Scheduler.Due() {
			a.idle()
			continue
		}

		a.Walker.Step(&state)

		frame, err := a.Assembler.Assemble(state.Position, a.Serial, a.Pilot, state.Heading)
		if err != nil {
			return fmt.Errorf("assemble frame %d: %w", seq+1, err)
		}
		if err := tr.Send(frame); err != nil {
			return fmt.Errorf("send frame %d: %w", seq+1, err)
		}
		seq++

		a.report(status.NewRecord(seq, a.Clock.Now(), a.Serial, state, a.Pilot, len(frame)))
		a.Scheduler.Rearm()
		a.Log.Debug().Time("next", a.Scheduler.Next()).Msg("rearmed")
	}
}

// report logs the status record and hands it to every sink. A failing
// sink is logged and skipped.
func (a *Autopilot) report(rec status.Record) {
	a.Log.Info().
		Str("serial", rec.Serial).
		Int64("lat", rec.State.Position.Lat).
		Int64("lng", rec.State.Position.Lng).
		Int("direction", rec.State.Heading).
		Uint64("seq", rec.Seq).
		Msg("sent")

	for _, s := range a.Sinks {
		if err := s.Publish(rec); err != nil {
			a.Log.Warn().Err(err).Uint64("seq", rec.Seq).Msg("status sink")
		}
	}
}

func (a *Autopilot) idle() {
	if a.PollYield > 0 {
		time.Sleep(a.PollYield)
		return
	}
	runtime.Gosched()
}
