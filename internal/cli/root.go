// Package cli provides the command-line interface for the signal engine.
package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mcx-signals/internal/config"
	"mcx-signals/internal/logging"
	"mcx-signals/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  *store.InstrumentStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// The instrument cache is best-effort: commands that need it check for nil.
	dbPath := config.DefaultConfigDir() + "/instruments.db"
	ttl := time.Duration(cfg.Cache.InstrumentTTLHours) * time.Hour
	instrumentStore, err := store.NewInstrumentStore(dbPath, ttl, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize instrument cache, instrument commands unavailable")
	} else {
		app.Store = instrumentStore
		logger.Debug().Msg("Instrument cache initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "mcx-signals",
		Short: "Multi-timeframe signal engine for commodity futures and options",
		Long: `mcx-signals computes a technical bias per timeframe, aggregates the
timeframes into one weighted verdict, derives an ATR trade plan, and
analyzes broker option chains (with a deterministic synthetic fallback).

All market data is supplied as local files; the engine performs no
network I/O of its own.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logging.SetDebugLevel()
			}
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newChainCmd(app))
	rootCmd.AddCommand(newInstrumentsCmd(app))

	return rootCmd
}
