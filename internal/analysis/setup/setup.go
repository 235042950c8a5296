// Package setup derives ATR-based futures trade plans from a timeframe
// signal and the overall direction.
package setup

import (
	"fmt"

	"mcx-signals/internal/config"
	apperrors "mcx-signals/internal/errors"
	"mcx-signals/internal/models"
)

// Generator builds entry/stop/target plans. Stops sit one ATR multiple
// against the direction; targets sit at the configured ATR multiples with it.
type Generator struct {
	cfg config.SetupConfig
}

// NewGenerator creates a setup generator.
func NewGenerator(cfg config.SetupConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Generate builds the trade plan for one timeframe. A HOLD direction yields
// an entry-only setup with zeroed risk fields; callers must check the
// direction before acting on stop or targets. When ATR is unavailable or
// zero the risk geometry is degenerate, so the plan degrades to the same
// entry-only shape marked advisory instead of failing the pipeline.
func (g *Generator) Generate(sig models.TimeframeSignal, direction models.Bias) *models.FuturesSetup {
	entry := sig.LastPrice

	if direction == models.BiasHold {
		return holdSetup(sig.Timeframe, entry, "no directional edge, stand aside")
	}

	if err := riskGeometry(sig.Indicators.ATR); err != nil {
		s := holdSetup(sig.Timeframe, entry, "volatility unavailable, setup is advisory only")
		s.Advisory = true
		return s
	}

	atr := *sig.Indicators.ATR
	risk := atr * g.cfg.RiskMultiplier

	s := &models.FuturesSetup{
		Timeframe: sig.Timeframe,
		Direction: direction,
		Entry:     entry,
		ATRValue:  atr,
	}

	switch direction {
	case models.BiasBuy:
		s.StopLoss = entry - risk
		s.Target1 = entry + atr*g.cfg.Target1Multiple
		s.Target2 = entry + atr*g.cfg.Target2Multiple
	case models.BiasSell:
		s.StopLoss = entry + risk
		s.Target1 = entry - atr*g.cfg.Target1Multiple
		s.Target2 = entry - atr*g.cfg.Target2Multiple
	}

	s.RiskRewardRatio = abs(s.Target1-entry) / abs(entry-s.StopLoss)
	s.Rationale = fmt.Sprintf("%s %s: entry %.2f, stop %.2f (%.1fx ATR %.2f), targets %.2f / %.2f, RR %.2f",
		direction, sig.Timeframe, entry, s.StopLoss, g.cfg.RiskMultiplier, atr, s.Target1, s.Target2, s.RiskRewardRatio)
	if barrier, label, ok := nearestBarrier(sig.Indicators.Pivots, entry, direction); ok {
		s.Rationale += fmt.Sprintf(", next %s %.2f", label, barrier)
	}

	return s
}

// nearestBarrier picks the closest pivot level standing between the entry and
// the trade's direction: the lowest resistance above entry for a BUY, the
// highest support below entry for a SELL.
func nearestBarrier(p *models.PivotLevels, entry float64, direction models.Bias) (float64, string, bool) {
	if p == nil {
		return 0, "", false
	}

	var candidates []float64
	var label string
	switch direction {
	case models.BiasBuy:
		candidates = []float64{p.Pivot, p.R1, p.R2, p.R3}
		label = "resistance"
	case models.BiasSell:
		candidates = []float64{p.Pivot, p.S1, p.S2, p.S3}
		label = "support"
	default:
		return 0, "", false
	}

	var barrier float64
	found := false
	for _, level := range candidates {
		if direction == models.BiasBuy && level > entry && (!found || level < barrier) {
			barrier = level
			found = true
		}
		if direction == models.BiasSell && level < entry && (!found || level > barrier) {
			barrier = level
			found = true
		}
	}
	return barrier, label, found
}

// riskGeometry rejects a plan whose stop distance would collapse to zero.
// The error never leaves the package: Generate absorbs it into an advisory
// HOLD setup.
func riskGeometry(atr *float64) error {
	if atr == nil || *atr <= 0 {
		return apperrors.ErrDegenerateRisk
	}
	return nil
}

// holdSetup returns the HOLD-shaped plan: stop and targets collapse to the
// entry and risk/reward is zero.
func holdSetup(tf models.Timeframe, entry float64, rationale string) *models.FuturesSetup {
	return &models.FuturesSetup{
		Timeframe:       tf,
		Direction:       models.BiasHold,
		Entry:           entry,
		StopLoss:        entry,
		Target1:         entry,
		Target2:         entry,
		RiskRewardRatio: 0,
		Rationale:       rationale,
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
