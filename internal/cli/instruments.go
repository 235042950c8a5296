package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mcx-signals/internal/models"
	"mcx-signals/internal/store"
)

func newInstrumentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instruments",
		Short: "Manage the cached instrument master",
	}

	cmd.AddCommand(newInstrumentsLoadCmd(app))
	cmd.AddCommand(newInstrumentsShowCmd(app))
	return cmd
}

func newInstrumentsLoadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load <master.csv>",
		Short: "Load a broker instrument-master CSV into the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("instrument cache unavailable")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening instrument master: %w", err)
			}
			defer f.Close()

			instruments, err := store.ParseInstrumentMaster(f)
			if err != nil {
				return err
			}

			symbol := app.Config.Symbol.Name
			exchange := models.Exchange(app.Config.Symbol.Exchange)
			filtered := store.FilterBySymbol(instruments, symbol, exchange)
			if len(filtered) == 0 {
				return fmt.Errorf("no rows for %s on %s in %s", symbol, exchange, args[0])
			}

			if err := app.Store.Put(symbol, string(exchange), filtered); err != nil {
				return err
			}

			out := NewOutput(cmd, app.Config.UI.ColorEnabled)
			out.Success("✓ Cached %d instruments for %s", len(filtered), symbol)
			return nil
		},
	}
}

func newInstrumentsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show cached instruments for the configured symbol",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("instrument cache unavailable")
			}

			symbol := app.Config.Symbol.Name
			instruments, fresh, err := app.Store.Get(symbol, app.Config.Symbol.Exchange)
			if err != nil {
				return err
			}
			if len(instruments) == 0 {
				return fmt.Errorf("no cached instruments for %s, run 'instruments load' first", symbol)
			}

			out := NewOutput(cmd, app.Config.UI.ColorEnabled)
			if out.IsJSON() {
				return out.JSON(instruments)
			}

			if !fresh {
				out.Warning("Cache is past its TTL, reload the instrument master")
			}
			out.Info("%d cached instruments for %s", len(instruments), symbol)
			out.Printf("%-12s %-6s %8s %8s %10s  %s\n", "ID", "TYPE", "STRIKE", "LOT", "TICK", "EXPIRY")
			for _, inst := range instruments {
				expiry := "-"
				if !inst.Expiry.IsZero() {
					expiry = inst.Expiry.Format(app.Config.UI.DateFormat)
				}
				out.Printf("%-12s %-6s %8.1f %8d %10.2f  %s\n",
					inst.InstrumentID, inst.InstrType, inst.Strike, inst.LotSize, inst.TickSize, expiry)
			}
			return nil
		},
	}
}
