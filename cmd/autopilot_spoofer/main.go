package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/relabs-tech/autopilot_spoofer/internal/app"
	"github.com/relabs-tech/autopilot_spoofer/internal/config"
	"github.com/relabs-tech/autopilot_spoofer/internal/logging"
	"github.com/relabs-tech/autopilot_spoofer/internal/remoteid"
	"github.com/relabs-tech/autopilot_spoofer/internal/sim"
)

func main() {
	cfg, err := config.Resolve(os.Args[1:], os.Stderr, func(seed uint64) string {
		return remoteid.RandomSerial(sim.NewRand(seed))
	})
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "autopilot_spoofer: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "autopilot_spoofer: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("starting autopilot Remote ID spoofer (random walk -> Wi-Fi beacon)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunSpoofer(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("fatal")
		stop()
		os.Exit(1)
	}
}
