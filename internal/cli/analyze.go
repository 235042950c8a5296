package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mcx-signals/internal/engine"
	apperrors "mcx-signals/internal/errors"
	"mcx-signals/internal/logging"
	"mcx-signals/internal/models"
	"mcx-signals/pkg/utils"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		candlesPath string
		quotePath   string
		chainFlags  []string
		ivPath      string
		expiryText  string
	)

	cmd := &cobra.Command{
		Use:   "analyze [symbol]",
		Short: "Full multi-timeframe analysis for a symbol",
		Long: `Compute the per-timeframe bias, the weighted overall verdict, the ATR
futures plan and the option-chain analytics from locally supplied data
files. Missing timeframes are dropped; missing chain sources fall back
to a synthetic ladder flagged as such.`,
		Example: `  mcx-signals analyze --candles candles.json
  mcx-signals analyze NATURALGAS --candles candles.json --quote quote.json
  mcx-signals analyze --candles candles.json --chain dhan:chain.json --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := app.Config.Symbol.Name
			if len(args) > 0 {
				symbol = strings.ToUpper(args[0])
			}

			input, err := buildInput(symbol, candlesPath, quotePath, chainFlags, ivPath, expiryText)
			if err != nil {
				return err
			}

			// The entry point threads the process logger through the command
			// context; direct library callers get a no-op logger.
			eng := engine.New(app.Config, nil, logging.FromContext(cmd.Context()))
			snapshot, err := eng.Analyze(*input)
			if err != nil {
				return err
			}

			out := NewOutput(cmd, app.Config.UI.ColorEnabled)
			if out.IsJSON() {
				return out.JSON(snapshot)
			}
			renderSnapshot(out, snapshot)
			return nil
		},
	}

	cmd.Flags().StringVar(&candlesPath, "candles", "", "JSON file mapping timeframe to candle series (required)")
	cmd.Flags().StringVar(&quotePath, "quote", "", "JSON file with the live anchor quote")
	cmd.Flags().StringArrayVar(&chainFlags, "chain", nil, "Option-chain payload as source:path (repeatable, tried in order)")
	cmd.Flags().StringVar(&ivPath, "iv-history", "", "JSON file with historical ATM IV observations")
	cmd.Flags().StringVar(&expiryText, "expiry", "", "Expiry date (2006-01-02) for the synthetic fallback ladder")
	cmd.MarkFlagRequired("candles")

	return cmd
}

// buildInput assembles the engine input from the supplied files. A chain
// file that cannot be read is skipped: the engine treats absent sources as
// fallback triggers, not errors.
func buildInput(symbol, candlesPath, quotePath string, chainFlags []string, ivPath, expiryText string) (*engine.Input, error) {
	input := &engine.Input{Symbol: symbol}

	data, err := os.ReadFile(candlesPath)
	if err != nil {
		return nil, fmt.Errorf("reading candles: %w", err)
	}
	var byTimeframe map[models.Timeframe][]models.Candle
	if err := json.Unmarshal(data, &byTimeframe); err != nil {
		return nil, apperrors.NewDataError("candles", symbol, "malformed candle file", err)
	}
	input.Candles = byTimeframe

	if quotePath != "" {
		data, err := os.ReadFile(quotePath)
		if err != nil {
			return nil, fmt.Errorf("reading quote: %w", err)
		}
		var quote models.Quote
		if err := json.Unmarshal(data, &quote); err != nil {
			return nil, apperrors.NewDataError("quote", symbol, "malformed quote file", err)
		}
		input.Quote = &quote
	}

	for _, flag := range chainFlags {
		source, path, ok := strings.Cut(flag, ":")
		if !ok {
			return nil, fmt.Errorf("chain flag %q must be source:path", flag)
		}
		payload, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		input.ChainPayloads = append(input.ChainPayloads, engine.ChainPayload{
			Source:  source,
			Payload: payload,
		})
	}

	if ivPath != "" {
		data, err := os.ReadFile(ivPath)
		if err != nil {
			return nil, fmt.Errorf("reading IV history: %w", err)
		}
		if err := json.Unmarshal(data, &input.IVHistory); err != nil {
			return nil, apperrors.NewDataError("iv_history", symbol, "malformed IV history file", err)
		}
	}

	if expiryText != "" {
		expiry, err := time.Parse("2006-01-02", expiryText)
		if err != nil {
			return nil, fmt.Errorf("parsing expiry: %w", err)
		}
		input.Expiry = expiry
	}

	return input, nil
}

func renderSnapshot(out *Output, s *models.Snapshot) {
	color.Cyan("📊 %s @ %s", s.Symbol, utils.FormatIndianCurrency(s.CurrentPrice))
	out.Println()

	direction := string(s.Overall.Direction)
	switch s.Overall.Direction {
	case models.BiasBuy:
		direction = out.Green(direction)
	case models.BiasSell:
		direction = out.Red(direction)
	default:
		direction = out.Yellow(direction)
	}
	out.Printf("Verdict: %s  score %.1f  confidence %s\n\n", direction, s.Overall.Score, s.Overall.Confidence)

	out.Bold("Timeframes")
	for _, tf := range s.Timeframes {
		out.Printf("  %-10s %-5s %7.1f  last %.2f (%s)\n",
			tf.Timeframe, tf.Bias, tf.BiasScore, tf.LastPrice, utils.FormatPercent(tf.ChangePercent))
	}
	out.Println()

	renderSetups(out, s)
	renderChainAnalysis(out, s.ChainAnalysis)

	for i, rec := range s.Recommendations {
		if i == 0 {
			out.Bold("Recommendations")
		}
		out.Printf("  %d. %s %s %.0f [%s]: %s\n", i+1, rec.Action, rec.Type, rec.Strike, rec.Risk, rec.Rationale)
	}
	if len(s.Recommendations) > 0 {
		out.Println()
	}

	out.Dim(s.Summary)
}

func renderSetups(out *Output, s *models.Snapshot) {
	timeframes := make([]models.Timeframe, 0, len(s.Setups))
	for tf := range s.Setups {
		timeframes = append(timeframes, tf)
	}
	sort.Slice(timeframes, func(i, j int) bool { return timeframes[i] < timeframes[j] })

	for _, tf := range timeframes {
		plan := s.Setups[tf]
		if plan.Direction == models.BiasHold {
			out.Warning("Futures plan (%s) HOLD: %s", tf, plan.Rationale)
			out.Println()
			continue
		}
		out.Bold("Futures plan (%s)", tf)
		out.Printf("  %s entry %.2f  stop %.2f  T1 %.2f  T2 %.2f  RR %.2f  ATR %.2f\n\n",
			plan.Direction, plan.Entry, plan.StopLoss, plan.Target1, plan.Target2,
			plan.RiskRewardRatio, plan.ATRValue)
	}
}

func renderChainAnalysis(out *Output, a *models.OptionChainAnalysis) {
	if a == nil {
		return
	}

	if a.Provenance == models.ChainSynthetic {
		out.Warning("Options (synthetic ladder, no live source)")
	} else {
		out.Bold("Options (%s)", a.Source)
	}
	out.Printf("  PCR %.2f  max pain %.0f  call resistance %.0f  put support %.0f  ATM IV %.1f%%\n",
		a.PCR, a.MaxPainStrike, a.CallResistance, a.PutSupport, a.ATMIV)
	if a.IVRank != nil {
		out.Printf("  IV rank %.0f", *a.IVRank)
		if a.IVPercentile != nil {
			out.Printf("  IV percentile %.0f", *a.IVPercentile)
		}
		out.Println()
	}
	out.Println()
}
