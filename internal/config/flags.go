// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Resolve builds the run configuration from command-line arguments
// (without the program name). Values come from, in increasing priority:
// defaults, the config file, then flags. A zero seed is replaced by a
// random one so every run can be reproduced from its logged seed.
// randomSerial is called at most once, with that seed, when no valid
// serial was supplied.
//
// pflag.ErrHelp is returned unchanged when -h/--help was requested.
func Resolve(args []string, stderr io.Writer, randomSerial func(seed uint64) string) (*Config, error) {
	fs := pflag.NewFlagSet("autopilot_spoofer", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	configPath := fs.StringP("config", "c", "", "path to configuration file (default "+DefaultPath+" if present)")
	iface := fs.StringP("interface", "i", "", "interface name (default: platform specific)")
	location := fs.StringSliceP("location", "l", nil, "start location of the drone: LATITUDE LONGITUDE")
	interval := fs.Float64P("interval", "n", 1, "interval in seconds between packets")
	serial := fs.StringP("serial", "s", "", "drone serial number (1-20 characters)")
	transport := fs.String("transport", "", "link-layer transport: pcap or afpacket")
	jitter := fs.Int64("jitter", 0, "max position change per axis per tick, in 1e-7 degrees")
	maxTurn := fs.Int("max-turn", 0, "max heading change per tick, in degrees")
	seed := fs.Uint64("seed", 0, "random seed (0 picks one at random)")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	logFormat := fs.String("log-format", "", "log format: console or json")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Spoof one drone and move it automatically in a human like pattern")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage: autopilot_spoofer --location LATITUDE LONGITUDE [flags]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(joinLocationArgs(args)); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	path := *configPath
	if path == "" && fileExists(DefaultPath) {
		path = DefaultPath
	}
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}

	if fs.Changed("interface") {
		cfg.Interface = *iface
	}
	if fs.Changed("location") {
		pos, err := ParseLocation(*location)
		if err != nil {
			return nil, fmt.Errorf("invalid --location: %w", err)
		}
		cfg.Start, cfg.HaveStart = pos, true
	}
	if fs.Changed("interval") {
		d, err := secondsToDuration(*interval)
		if err != nil {
			return nil, fmt.Errorf("invalid --interval: %w", err)
		}
		cfg.Interval = d
	}
	if fs.Changed("serial") {
		cfg.Serial = *serial
	}
	if fs.Changed("transport") {
		cfg.Transport = *transport
	}
	if fs.Changed("jitter") {
		cfg.Jitter = *jitter
	}
	if fs.Changed("max-turn") {
		cfg.MaxTurn = *maxTurn
	}
	if fs.Changed("seed") {
		cfg.Seed = *seed
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = *logFormat
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64N(math.MaxUint64) + 1
	}

	if s, ok := ValidateSerial(cfg.Serial); ok {
		cfg.Serial = s
	} else {
		cfg.Serial = randomSerial(cfg.Seed)
		cfg.SerialGenerated = true
	}

	return cfg, nil
}

// joinLocationArgs rewrites "--location LAT LNG" into "--location=LAT,LNG"
// so a negative longitude is not mistaken for a shorthand flag.
func joinLocationArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if (a == "--location" || a == "-l") && i+2 < len(args) && isNumber(args[i+1]) && isNumber(args[i+2]) {
			out = append(out, "--location="+args[i+1]+","+args[i+2])
			i += 2
			continue
		}
		out = append(out, a)
	}
	return out
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
