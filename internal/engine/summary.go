package engine

import (
	"fmt"
	"strings"

	"mcx-signals/internal/models"
)

// Summarize renders the one-paragraph human summary carried on every
// snapshot. It names the verdict, the per-timeframe split, the trade plan
// and the chain provenance so an operator can read the state at a glance.
func Summarize(s *models.Snapshot, condition models.MarketCondition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s (%s confidence, score %.0f) at %.2f in a %s market.",
		s.Symbol, s.Overall.Direction, s.Overall.Confidence, s.Overall.Score,
		s.CurrentPrice, strings.ToLower(string(condition)))

	parts := make([]string, 0, len(s.Timeframes))
	for _, tf := range s.Timeframes {
		parts = append(parts, fmt.Sprintf("%s %s (%.0f)", tf.Timeframe, tf.Bias, tf.BiasScore))
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, " Timeframes: %s.", strings.Join(parts, ", "))
	}

	for _, plan := range s.Setups {
		if plan.Direction == models.BiasHold {
			if plan.Advisory {
				fmt.Fprintf(&b, " No actionable setup: volatility data unavailable.")
			} else {
				fmt.Fprintf(&b, " No actionable setup while the verdict is HOLD.")
			}
			continue
		}
		fmt.Fprintf(&b, " Futures plan (%s): entry %.2f, stop %.2f, targets %.2f/%.2f, RR %.2f.",
			plan.Timeframe, plan.Entry, plan.StopLoss, plan.Target1, plan.Target2, plan.RiskRewardRatio)
	}

	if s.ChainAnalysis != nil {
		fmt.Fprintf(&b, " Options (%s data): PCR %.2f, max pain %.0f, call resistance %.0f, put support %.0f.",
			s.ChainAnalysis.Provenance, s.ChainAnalysis.PCR, s.ChainAnalysis.MaxPainStrike,
			s.ChainAnalysis.CallResistance, s.ChainAnalysis.PutSupport)
	}

	if n := len(s.Recommendations); n > 0 {
		fmt.Fprintf(&b, " %d option strateg%s suggested.", n, pluralY(n))
	}

	return b.String()
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
