package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"stf-simulator/internal/cli"
	"stf-simulator/internal/config"
	"stf-simulator/internal/logging"
)

func main() {
	configDir := cli.ConfigDirFromArgs(os.Args[1:])

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(cfg.LogConfig())

	if err := cli.NewRootCmd(cfg, configDir, logger).Execute(); err != nil {
		logger.Debug().Err(err).Msg("Command failed")
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
