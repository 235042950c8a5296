package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mcx-signals/internal/analytics"
	"mcx-signals/internal/chain"
	"mcx-signals/internal/models"
	"mcx-signals/pkg/utils"
)

func newChainCmd(app *App) *cobra.Command {
	var (
		source string
		path   string
	)

	cmd := &cobra.Command{
		Use:   "chain [symbol]",
		Short: "Normalize and analyze one option-chain payload",
		Example: `  mcx-signals chain --source dhan --file chain.json
  mcx-signals chain NATURALGAS --source rupeezy --file chain.json --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := app.Config.Symbol.Name
			if len(args) > 0 {
				symbol = args[0]
			}

			payload, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading chain payload: %w", err)
			}

			out := NewOutput(cmd, app.Config.UI.ColorEnabled)

			normalizer := chain.NewNormalizer(app.Config.Chain, app.Config.Symbol.TickSize,
				chain.DefaultRegistry(), nil, app.Logger)
			canonical, report, err := normalizer.Normalize(source, symbol, payload)
			if err != nil {
				out.Error("✗ %s chain unusable: %v", source, err)
				return err
			}

			analysis := analytics.NewAnalyzer(app.Config.Synthetic.PlaceholderIV).Analyze(canonical, nil)

			if out.IsJSON() {
				return out.JSON(analysis)
			}

			renderChain(out, canonical, analysis)
			if report.HasIssues() {
				out.Warning("%d malformed leg field(s) defaulted to zero", len(report.Issues))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "dhan",
		fmt.Sprintf("Chain source tag (%s)", strings.Join(chain.DefaultRegistry().Sources(), ", ")))
	cmd.Flags().StringVar(&path, "file", "", "Raw chain payload file (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func renderChain(out *Output, c *models.OptionChain, analysis *models.OptionChainAnalysis) {
	color.Cyan("⛓  %s %s chain: spot %.2f, expiry %s", c.Symbol, c.Source, c.SpotPrice,
		c.Expiry.Format("02-Jan-2006"))
	out.Println()

	out.Printf("%10s %10s %8s | %8s | %8s %10s %10s\n",
		"CALL OI", "CALL LTP", "CALL IV", "STRIKE", "PUT IV", "PUT LTP", "PUT OI")
	for _, row := range c.Rows {
		callOI, callLTP, callIV := legCells(row.Call)
		putOI, putLTP, putIV := legCells(row.Put)
		strike := fmt.Sprintf("%8.1f", row.Strike)
		if row.Strike == analysis.MaxPainStrike {
			strike = out.Yellow(strike)
		}
		out.Printf("%10s %10s %8s | %s | %8s %10s %10s\n",
			callOI, callLTP, callIV, strike, putIV, putLTP, putOI)
	}

	out.Println()
	out.Printf("PCR %.2f  max pain %.0f  call resistance %.0f  put support %.0f  ATM IV %.1f%%\n",
		analysis.PCR, analysis.MaxPainStrike, analysis.CallResistance, analysis.PutSupport, analysis.ATMIV)
}

func legCells(leg *models.OptionLeg) (oi, ltp, iv string) {
	if leg == nil {
		return "-", "-", "-"
	}
	return utils.FormatOI(leg.OpenInterest),
		fmt.Sprintf("%.2f", leg.LastPrice),
		fmt.Sprintf("%.1f", leg.IV)
}
