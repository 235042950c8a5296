package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"mcx-signals/internal/cli"
	"mcx-signals/internal/config"
	"mcx-signals/internal/logging"
)

func main() {
	// Local .env overrides are optional.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("MCX_SIGNALS_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	if level := os.Getenv("MCX_SIGNALS_LOG_LEVEL"); level != "" {
		logCfg.Level = level
	}
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd := cli.NewRootCmd(cfg, logger)
	ctx := logging.WithLogger(context.Background(), logger)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
