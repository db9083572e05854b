package main

import (
	"os"

	"StockWise/internal/cli"
	"StockWise/internal/config"
	"StockWise/internal/logging"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		logging.New(logging.DefaultConfig(), os.Stderr).Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(cfg.Logging, os.Stderr)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config validation")
	}

	if err := cli.NewRootCmd(cfg, logger).Execute(); err != nil {
		logger.Error().Err(err).Msg("stockwise")
		os.Exit(1)
	}
}
