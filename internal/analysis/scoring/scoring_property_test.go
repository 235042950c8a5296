package scoring

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"mcx-signals/internal/config"
	"mcx-signals/internal/models"
)

// Property: for any valid candle series the per-timeframe scorer produces a
// score within [-100, +100], maps it to the documented bias thresholds, and
// is deterministic for identical inputs.

// candleGen generates valid candle data with realistic OHLCV values
func candleGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.Candle{}), map[string]gopter.Gen{
		"Timestamp": gen.TimeRange(time.Now().Add(-365*24*time.Hour), time.Hour),
		"Open":      gen.Float64Range(100.0, 1000.0),
		"High":      gen.Float64Range(100.0, 1000.0),
		"Low":       gen.Float64Range(100.0, 1000.0),
		"Close":     gen.Float64Range(100.0, 1000.0),
		"Volume":    gen.Int64Range(1000, 10000000),
	}).Map(func(c models.Candle) models.Candle {
		// Ensure OHLC constraints: High >= max(Open, Close) and Low <= min(Open, Close)
		c.High = math.Max(c.High, math.Max(c.Open, c.Close))
		c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
		if c.High <= c.Low {
			c.High = c.Low + 1.0
		}
		return c
	})
}

// candleSliceGen generates an ascending slice of valid candles
func candleSliceGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, candleGen()).Map(func(candles []models.Candle) []models.Candle {
		for len(candles) < minLen {
			candles = append(candles, candles[len(candles)-1])
		}
		base := time.Now().Add(-time.Duration(len(candles)) * time.Hour)
		for i := range candles {
			candles[i].Timestamp = base.Add(time.Duration(i) * time.Hour)
		}
		return candles
	})
}

func testScoringConfig() config.ScoringConfig {
	return config.Default().Scoring
}

func TestProperty_BiasScoreWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("Bias score is within [-100, +100]", prop.ForAll(
		func(candles []models.Candle) bool {
			scorer := NewScorer(testScoringConfig())
			sig := scorer.ScoreTimeframe(models.Timeframe1Hour, candles)
			return sig.BiasScore >= -100 && sig.BiasScore <= 100
		},
		candleSliceGen(60, 150),
	))

	properties.TestingRun(t)
}

func TestProperty_BiasMatchesThresholds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	cfg := testScoringConfig()

	properties.Property("Bias follows the score thresholds", prop.ForAll(
		func(candles []models.Candle) bool {
			scorer := NewScorer(cfg)
			sig := scorer.ScoreTimeframe(models.Timeframe1Day, candles)

			switch {
			case sig.BiasScore > cfg.BiasThreshold:
				return sig.Bias == models.BiasBuy
			case sig.BiasScore < -cfg.BiasThreshold:
				return sig.Bias == models.BiasSell
			default:
				return sig.Bias == models.BiasHold
			}
		},
		candleSliceGen(60, 150),
	))

	properties.TestingRun(t)
}

func TestProperty_ScoringDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("Identical candle series produce identical signals", prop.ForAll(
		func(candles []models.Candle) bool {
			scorer := NewScorer(testScoringConfig())
			first := scorer.ScoreTimeframe(models.Timeframe15Min, candles)
			second := scorer.ScoreTimeframe(models.Timeframe15Min, candles)
			return first.BiasScore == second.BiasScore && first.Bias == second.Bias
		},
		candleSliceGen(60, 150),
	))

	properties.TestingRun(t)
}

func TestProperty_VerdictScoreWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	cfg := testScoringConfig()
	verdict := NewVerdict(ScorerConfig{
		BiasThreshold:    cfg.BiasThreshold,
		ConfidenceHigh:   cfg.ConfidenceHigh,
		ConfidenceMedium: cfg.ConfidenceMedium,
		LiveNudgeFactor:  cfg.LiveNudgeFactor,
		LiveNudgeCap:     cfg.LiveNudgeCap,
	}, map[models.Timeframe]float64{
		models.Timeframe1Hour: 0.6,
		models.Timeframe1Day:  0.4,
	})

	properties.Property("Overall score stays within [-100, +100] with a live nudge", prop.ForAll(
		func(scoreA, scoreB, livePct float64) bool {
			signals := []models.TimeframeSignal{
				{Timeframe: models.Timeframe1Hour, BiasScore: scoreA, Bias: models.BiasHold},
				{Timeframe: models.Timeframe1Day, BiasScore: scoreB, Bias: models.BiasHold},
			}
			overall := verdict.Aggregate(signals, &livePct)
			return overall.Score >= -100 && overall.Score <= 100
		},
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
		gen.Float64Range(-50, 50),
	))

	properties.TestingRun(t)
}

func TestProperty_ClampFunction(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Clamp produces values within bounds", prop.ForAll(
		func(value, minVal, maxVal float64) bool {
			if minVal > maxVal {
				minVal, maxVal = maxVal, minVal
			}
			result := clamp(value, minVal, maxVal)
			return result >= minVal && result <= maxVal
		},
		gen.Float64Range(-1000, 1000),
		gen.Float64Range(-500, 0),
		gen.Float64Range(0, 500),
	))

	properties.TestingRun(t)
}
