package scoring

import (
	"mcx-signals/internal/models"
)

// Verdict aggregates per-timeframe signals into the overall call. Timeframe
// weights are renormalized over the timeframes actually present, so a missing
// series never dilutes the score.
type Verdict struct {
	cfg     ScorerConfig
	weights map[models.Timeframe]float64
}

// ScorerConfig is the subset of scoring configuration the verdict needs.
type ScorerConfig struct {
	BiasThreshold    float64
	ConfidenceHigh   float64
	ConfidenceMedium float64
	LiveNudgeFactor  float64
	LiveNudgeCap     float64
}

// NewVerdict creates a verdict aggregator with the given timeframe weights.
func NewVerdict(cfg ScorerConfig, weights map[models.Timeframe]float64) *Verdict {
	return &Verdict{cfg: cfg, weights: weights}
}

// Aggregate computes the overall signal from the supplied timeframe signals.
// liveChangePercent is the intraday percent change of the live anchor, or nil
// when no live quote was available; it nudges the score by at most the
// configured cap and never flips the weighted direction on its own.
func (v *Verdict) Aggregate(signals []models.TimeframeSignal, liveChangePercent *float64) models.OverallSignal {
	if len(signals) == 0 {
		return models.OverallSignal{Direction: models.BiasHold, Confidence: models.ConfidenceLow}
	}

	var weightedSum, weightTotal float64
	for _, sig := range signals {
		w, ok := v.weights[sig.Timeframe]
		if !ok {
			continue
		}
		weightedSum += sig.BiasScore * w
		weightTotal += w
	}

	var score float64
	if weightTotal > 0 {
		score = weightedSum / weightTotal
	}

	if liveChangePercent != nil {
		score += clamp(*liveChangePercent*v.cfg.LiveNudgeFactor, -v.cfg.LiveNudgeCap, v.cfg.LiveNudgeCap)
	}
	score = clamp(score, -100, 100)

	direction := v.directionFor(score)

	return models.OverallSignal{
		Direction:  direction,
		Confidence: v.confidenceFor(score, direction, signals),
		Score:      score,
	}
}

func (v *Verdict) directionFor(score float64) models.Bias {
	switch {
	case score > v.cfg.BiasThreshold:
		return models.BiasBuy
	case score < -v.cfg.BiasThreshold:
		return models.BiasSell
	default:
		return models.BiasHold
	}
}

// confidenceFor tiers the absolute score, then caps at MEDIUM when fewer than
// a majority of timeframes agree with the overall direction. A strong score
// built on disagreeing timeframes is not a high-conviction call.
func (v *Verdict) confidenceFor(score float64, direction models.Bias, signals []models.TimeframeSignal) models.Confidence {
	abs := score
	if abs < 0 {
		abs = -abs
	}

	var conf models.Confidence
	switch {
	case abs >= v.cfg.ConfidenceHigh:
		conf = models.ConfidenceHigh
	case abs >= v.cfg.ConfidenceMedium:
		conf = models.ConfidenceMedium
	default:
		conf = models.ConfidenceLow
	}

	if conf == models.ConfidenceHigh && direction != models.BiasHold {
		agreeing := 0
		for _, sig := range signals {
			if sig.Bias == direction {
				agreeing++
			}
		}
		if agreeing*2 <= len(signals) {
			conf = models.ConfidenceMedium
		}
	}

	return conf
}
