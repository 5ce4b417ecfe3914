// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/relabs-tech/autopilot_spoofer/internal/sim"
)

// DefaultPath is read when present; a missing default file is not an error.
const DefaultPath = "./spoofer_config.txt"

// ErrMissingLocation is returned when no start location was given.
var ErrMissingLocation = errors.New("start location is required (--location LAT LNG)")

// Config holds all resolved run parameters. It is built once at startup
// and never mutated afterwards.
type Config struct {
	// Transmission
	Interface string // empty means the platform default
	Transport string // "pcap" or "afpacket"
	Interval  time.Duration
	PollYield time.Duration // pause between idle scheduler polls; 0 only yields the processor

	// Aircraft
	Start           sim.Position
	HaveStart       bool
	Serial          string
	SerialGenerated bool
	Jitter          int64 // position units per axis per tick
	MaxTurn         int   // degrees per tick
	PilotRadius     int64 // position units per axis
	Seed            uint64

	// MQTT status sink
	MQTTBroker   string
	MQTTClientID string
	TopicStatus  string

	// NMEA mirror
	NMEASerialPort string
	NMEABaudRate   int

	// Web status feed
	WebListenAddr string

	// Logging
	LogLevel  string
	LogFormat string // "console" or "json"
}

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		Transport:    "pcap",
		Interval:     time.Second,
		PollYield:    time.Millisecond,
		Jitter:       sim.DefaultJitter,
		MaxTurn:      sim.DefaultMaxTurn,
		PilotRadius:  sim.DefaultPilotRadius,
		MQTTClientID: "autopilot-spoofer",
		TopicStatus:  "spoofer/status",
		NMEABaudRate: 9600,
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// Load reads a KEY=VALUE configuration file on top of the defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(configPath string) error {
	values, err := godotenv.Read(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Apply in a stable order so the first reported error is deterministic.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := c.setValue(key, strings.TrimSpace(values[key])); err != nil {
			return fmt.Errorf("config %s: %w", configPath, err)
		}
	}
	return nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Transmission
	case "INTERFACE":
		c.Interface = value
	case "TRANSPORT":
		c.Transport = value
	case "INTERVAL":
		d, err := parseSeconds(value)
		if err != nil {
			return fmt.Errorf("invalid INTERVAL %q: %w", value, err)
		}
		c.Interval = d
	case "POLL_YIELD_MS":
		ms, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid POLL_YIELD_MS %q: %w", value, err)
		}
		if ms < 0 {
			return fmt.Errorf("POLL_YIELD_MS must be >= 0, got %d", ms)
		}
		c.PollYield = time.Duration(ms) * time.Millisecond

	// Aircraft
	case "LOCATION":
		pos, err := ParseLocation(strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' }))
		if err != nil {
			return fmt.Errorf("invalid LOCATION %q: %w", value, err)
		}
		c.Start, c.HaveStart = pos, true
	case "SERIAL":
		c.Serial = value
	case "JITTER":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid JITTER %q: %w", value, err)
		}
		c.Jitter = v
	case "MAX_TURN":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAX_TURN %q: %w", value, err)
		}
		c.MaxTurn = v
	case "PILOT_RADIUS":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid PILOT_RADIUS %q: %w", value, err)
		}
		c.PilotRadius = v
	case "SEED":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SEED %q: %w", value, err)
		}
		c.Seed = v

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "TOPIC_STATUS":
		c.TopicStatus = value

	// NMEA
	case "NMEA_SERIAL_PORT":
		c.NMEASerialPort = value
	case "NMEA_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid NMEA_BAUD_RATE %q: %w", value, err)
		}
		c.NMEABaudRate = rate

	// Web
	case "WEB_LISTEN_ADDR":
		c.WebListenAddr = value

	// Logging
	case "LOG_LEVEL":
		c.LogLevel = value
	case "LOG_FORMAT":
		c.LogFormat = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that the resolved config can drive a run.
func (c *Config) validate() error {
	if !c.HaveStart {
		return ErrMissingLocation
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must be >= 0, got %s", c.Interval)
	}
	if c.Jitter < 0 || c.Jitter > sim.MaxJitter {
		return fmt.Errorf("JITTER must be 0-%d, got %d", sim.MaxJitter, c.Jitter)
	}
	if c.MaxTurn < 0 || c.MaxTurn > 180 {
		return fmt.Errorf("MAX_TURN must be 0-180, got %d", c.MaxTurn)
	}
	if c.PilotRadius < 0 || c.PilotRadius > sim.MaxJitter {
		return fmt.Errorf("PILOT_RADIUS must be 0-%d, got %d", sim.MaxJitter, c.PilotRadius)
	}
	switch c.Transport {
	case "pcap", "afpacket":
	default:
		return fmt.Errorf("TRANSPORT must be pcap or afpacket, got %q", c.Transport)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	if c.NMEASerialPort != "" && c.NMEABaudRate <= 0 {
		return fmt.Errorf("NMEA_BAUD_RATE must be > 0 when NMEA_SERIAL_PORT is set")
	}
	return nil
}

// ParseLocation converts "LAT LNG" in decimal degrees into a fixed-point Position.
func ParseLocation(fields []string) (sim.Position, error) {
	if len(fields) != 2 {
		return sim.Position{}, fmt.Errorf("expected 2 values (latitude longitude), got %d", len(fields))
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return sim.Position{}, fmt.Errorf("latitude %q: %w", fields[0], err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return sim.Position{}, fmt.Errorf("longitude %q: %w", fields[1], err)
	}
	if !finite(lat) || !finite(lng) {
		return sim.Position{}, fmt.Errorf("location must be finite, got %v %v", lat, lng)
	}
	return sim.FromDegrees(lat, lng), nil
}

// parseSeconds accepts non-negative, possibly fractional, seconds.
func parseSeconds(value string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return secondsToDuration(secs)
}

func secondsToDuration(secs float64) (time.Duration, error) {
	if !finite(secs) {
		return 0, fmt.Errorf("must be finite, got %v", secs)
	}
	if secs < 0 {
		return 0, fmt.Errorf("must be >= 0, got %v", secs)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
