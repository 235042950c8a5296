// Package scoring converts indicator snapshots into per-timeframe bias scores
// and the aggregated multi-timeframe verdict.
package scoring

import (
	"mcx-signals/internal/analysis/indicators"
	"mcx-signals/internal/config"
	"mcx-signals/internal/models"
)

// vote is a directional indicator vote.
type vote int

const (
	voteSell vote = -1
	voteHold vote = 0
	voteBuy  vote = 1
)

// Scorer combines independent indicator votes into a composite bias score
// using a fixed weight table. The weights sum to 100, so the score is always
// in [-100, +100]. An indicator with insufficient history votes HOLD.
type Scorer struct {
	cfg config.ScoringConfig
}

// NewScorer creates a new scorer with the given thresholds and weights.
func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// ScoreTimeframe computes one timeframe's signal from its candle series.
// The caller guarantees a non-empty, ascending series.
func (s *Scorer) ScoreTimeframe(tf models.Timeframe, candles []models.Candle) models.TimeframeSignal {
	set := indicators.Snapshot(candles)
	score := s.scoreIndicators(set, candles[len(candles)-1].Close)

	sig := models.TimeframeSignal{
		Timeframe:   tf,
		Bias:        s.biasFor(score),
		BiasScore:   score,
		Indicators:  set,
		LastPrice:   candles[len(candles)-1].Close,
		CandleCount: len(candles),
	}

	sig.ReferenceClose = candles[0].Close
	sig.PriceChange = sig.LastPrice - sig.ReferenceClose
	if sig.ReferenceClose != 0 {
		sig.ChangePercent = 100 * sig.PriceChange / sig.ReferenceClose
	}

	return sig
}

// scoreIndicators sums the weighted votes of the fixed indicator set.
func (s *Scorer) scoreIndicators(set models.IndicatorSet, price float64) float64 {
	w := s.cfg.Weights

	total := float64(s.rsiVote(set)) * w.RSI
	total += float64(s.macdVote(set)) * w.MACD
	total += float64(s.stochasticVote(set)) * w.Stochastic
	total += float64(s.emaVote(set, price)) * w.EMA
	total += float64(s.adxVote(set)) * w.ADX
	total += float64(s.bollingerVote(set, price)) * w.Bollinger
	total += float64(s.vwapVote(set, price)) * w.VWAP

	return clamp(total, -100, 100)
}

// rsiVote: oversold is a buy, overbought is a sell.
func (s *Scorer) rsiVote(set models.IndicatorSet) vote {
	if set.RSI == nil {
		return voteHold
	}
	switch {
	case *set.RSI < s.cfg.RSIOversold:
		return voteBuy
	case *set.RSI > s.cfg.RSIOverbought:
		return voteSell
	default:
		return voteHold
	}
}

// macdVote follows the histogram sign.
func (s *Scorer) macdVote(set models.IndicatorSet) vote {
	if set.MACDHistogram == nil {
		return voteHold
	}
	switch {
	case *set.MACDHistogram > 0:
		return voteBuy
	case *set.MACDHistogram < 0:
		return voteSell
	default:
		return voteHold
	}
}

// stochasticVote: %K in the oversold zone is a buy, overbought a sell.
func (s *Scorer) stochasticVote(set models.IndicatorSet) vote {
	if set.StochasticK == nil {
		return voteHold
	}
	switch {
	case *set.StochasticK < s.cfg.StochOversold:
		return voteBuy
	case *set.StochasticK > s.cfg.StochOverbought:
		return voteSell
	default:
		return voteHold
	}
}

// emaVote is trend-following: price and fast EMA aligned above the slow EMA
// is a buy, the mirror a sell. A weak ADX gates the vote out entirely.
func (s *Scorer) emaVote(set models.IndicatorSet, price float64) vote {
	if set.EMA20 == nil || set.EMA50 == nil {
		return voteHold
	}
	if set.ADX != nil && *set.ADX < s.cfg.ADXTrendFloor {
		return voteHold
	}
	switch {
	case price > *set.EMA20 && *set.EMA20 > *set.EMA50:
		return voteBuy
	case price < *set.EMA20 && *set.EMA20 < *set.EMA50:
		return voteSell
	default:
		return voteHold
	}
}

// adxVote votes with the dominant directional index, but only when the trend
// is strong enough to follow.
func (s *Scorer) adxVote(set models.IndicatorSet) vote {
	if set.ADX == nil || set.PlusDI == nil || set.MinusDI == nil {
		return voteHold
	}
	if *set.ADX < s.cfg.ADXTrendFloor {
		return voteHold
	}
	switch {
	case *set.PlusDI > *set.MinusDI:
		return voteBuy
	case *set.MinusDI > *set.PlusDI:
		return voteSell
	default:
		return voteHold
	}
}

// bollingerVote is mean-reverting: a touch of the lower band is a buy, of
// the upper band a sell.
func (s *Scorer) bollingerVote(set models.IndicatorSet, price float64) vote {
	if set.BollingerUpper == nil || set.BollingerLower == nil {
		return voteHold
	}
	switch {
	case price <= *set.BollingerLower:
		return voteBuy
	case price >= *set.BollingerUpper:
		return voteSell
	default:
		return voteHold
	}
}

// vwapVote: trading above VWAP is a buy, below a sell.
func (s *Scorer) vwapVote(set models.IndicatorSet, price float64) vote {
	if set.VWAP == nil {
		return voteHold
	}
	switch {
	case price > *set.VWAP:
		return voteBuy
	case price < *set.VWAP:
		return voteSell
	default:
		return voteHold
	}
}

// biasFor maps a score to a bias. A score exactly at the threshold resolves
// to HOLD, the conservative branch.
func (s *Scorer) biasFor(score float64) models.Bias {
	switch {
	case score > s.cfg.BiasThreshold:
		return models.BiasBuy
	case score < -s.cfg.BiasThreshold:
		return models.BiasSell
	default:
		return models.BiasHold
	}
}

// clamp restricts a value to the given range.
func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
