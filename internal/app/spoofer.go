// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/relabs-tech/autopilot_spoofer/internal/config"
	"github.com/relabs-tech/autopilot_spoofer/internal/remoteid"
	"github.com/relabs-tech/autopilot_spoofer/internal/schedule"
	"github.com/relabs-tech/autopilot_spoofer/internal/sim"
	"github.com/relabs-tech/autopilot_spoofer/internal/status"
	"github.com/relabs-tech/autopilot_spoofer/internal/transport"
)

// cruiseAltitudeM is the altitude reported in every Location message.
const cruiseAltitudeM = 60

// RunSpoofer wires a resolved config into an Autopilot and runs it until
// ctx is cancelled or sending fails.
func RunSpoofer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (err error) {
	rng := sim.NewRand(cfg.Seed)
	pilot := sim.RandomPilotLocation(rng, cfg.Start, cfg.PilotRadius)

	iface := cfg.Interface
	if iface == "" {
		if iface, err = transport.DefaultInterface(); err != nil {
			return err
		}
	}

	sinks, err := openSinks(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		for _, s := range sinks {
			if cerr := s.Close(); cerr != nil {
				log.Warn().Err(cerr).Msg("status sink close")
			}
		}
	}()

	clock := schedule.SystemClock{}
	walker := sim.NewWalker(rng, cfg.Jitter, cfg.MaxTurn)
	sched := schedule.New(clock, cfg.Interval)

	startLat, startLng := cfg.Start.Degrees()
	log.Info().
		Str("serial", cfg.Serial).
		Bool("serial_generated", cfg.SerialGenerated).
		Float64("lat", startLat).
		Float64("lng", startLng).
		Str("interface", iface).
		Str("transport", cfg.Transport).
		Dur("interval", sched.Interval()).
		Int64("jitter", walker.Jitter()).
		Uint64("seed", cfg.Seed).
		Msg("creating autopilot drone")

	ap := &Autopilot{
		Serial:    cfg.Serial,
		Start:     cfg.Start,
		Pilot:     pilot,
		Walker:    walker,
		Scheduler: sched,
		Clock:     clock,
		Assembler: remoteid.NewAssembler(cruiseAltitudeM),
		OpenTransport: func() (transport.Sender, error) {
			return transport.Open(cfg.Transport, iface)
		},
		Sinks:     sinks,
		PollYield: cfg.PollYield,
		Log:       log,
	}
	return ap.Run(ctx)
}

// openSinks opens every configured status sink. On failure the sinks
// already opened are closed again.
func openSinks(cfg *config.Config, log zerolog.Logger) ([]status.Sink, error) {
	var sinks []status.Sink
	fail := func(err error) ([]status.Sink, error) {
		for _, s := range sinks {
			s.Close()
		}
		return nil, err
	}

	if cfg.WebListenAddr != "" {
		feed := status.NewWebFeed(log)
		if err := feed.Start(cfg.WebListenAddr); err != nil {
			return fail(err)
		}
		sinks = append(sinks, feed)
	}

	if cfg.MQTTBroker != "" {
		s, err := status.DialMQTT(cfg.MQTTBroker, cfg.MQTTClientID, cfg.TopicStatus)
		if err != nil {
			return fail(err)
		}
		log.Info().Str("broker", cfg.MQTTBroker).Str("topic", cfg.TopicStatus).Msg("publishing status to MQTT")
		sinks = append(sinks, s)
	}

	if cfg.NMEASerialPort != "" {
		s, err := status.OpenNMEA(cfg.NMEASerialPort, cfg.NMEABaudRate)
		if err != nil {
			return fail(err)
		}
		log.Info().Str("port", cfg.NMEASerialPort).Int("baud", cfg.NMEABaudRate).Msg("mirroring track as NMEA")
		sinks = append(sinks, s)
	}

	return sinks, nil
}
