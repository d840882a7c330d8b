package main

import (
	"context"
	"fmt"
	"os"

	"option-payoff/internal/cli"
	"option-payoff/internal/config"
	"option-payoff/internal/logging"
)

func main() {
	cfg, err := config.Load(cli.ConfigDirFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewLoggerWithConfig(cfg.LogConfig())
	log.Debug().Str("config", cfg.Path()).Msg("Configuration loaded")

	rootCmd := cli.NewRootCmd(cfg, log)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("Command failed")
		if !cli.Reported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
