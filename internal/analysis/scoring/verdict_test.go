package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"mcx-signals/internal/models"
)

func defaultVerdict(weights map[models.Timeframe]float64) *Verdict {
	return NewVerdict(ScorerConfig{
		BiasThreshold:    20,
		ConfidenceHigh:   60,
		ConfidenceMedium: 30,
		LiveNudgeFactor:  2.0,
		LiveNudgeCap:     10,
	}, weights)
}

func TestAggregateWeightedAverage(t *testing.T) {
	verdict := defaultVerdict(map[models.Timeframe]float64{
		models.Timeframe1Hour: 0.5,
		models.Timeframe45Min: 0.3,
		models.Timeframe15Min: 0.2,
	})

	signals := []models.TimeframeSignal{
		{Timeframe: models.Timeframe1Hour, BiasScore: 80, Bias: models.BiasBuy},
		{Timeframe: models.Timeframe45Min, BiasScore: 60, Bias: models.BiasBuy},
		{Timeframe: models.Timeframe15Min, BiasScore: -10, Bias: models.BiasHold},
	}

	overall := verdict.Aggregate(signals, nil)

	assert.InDelta(t, 56.0, overall.Score, 1e-9)
	assert.Equal(t, models.BiasBuy, overall.Direction)
	assert.Equal(t, models.ConfidenceMedium, overall.Confidence)
}

func TestAggregateRenormalizesMissingTimeframes(t *testing.T) {
	verdict := defaultVerdict(map[models.Timeframe]float64{
		models.Timeframe1Hour: 0.5,
		models.Timeframe1Day:  0.5,
	})

	// Only one of the two weighted timeframes is present: its score should
	// carry through undiluted.
	signals := []models.TimeframeSignal{
		{Timeframe: models.Timeframe1Hour, BiasScore: 40, Bias: models.BiasBuy},
	}

	overall := verdict.Aggregate(signals, nil)

	assert.InDelta(t, 40.0, overall.Score, 1e-9)
	assert.Equal(t, models.BiasBuy, overall.Direction)
}

func TestAggregateThresholdTieIsHold(t *testing.T) {
	verdict := defaultVerdict(map[models.Timeframe]float64{
		models.Timeframe1Day: 1.0,
	})

	signals := []models.TimeframeSignal{
		{Timeframe: models.Timeframe1Day, BiasScore: 20, Bias: models.BiasHold},
	}

	overall := verdict.Aggregate(signals, nil)
	assert.Equal(t, models.BiasHold, overall.Direction)

	signals[0].BiasScore = -20
	overall = verdict.Aggregate(signals, nil)
	assert.Equal(t, models.BiasHold, overall.Direction)
}

func TestAggregateLiveNudgeIsCapped(t *testing.T) {
	verdict := defaultVerdict(map[models.Timeframe]float64{
		models.Timeframe1Day: 1.0,
	})

	signals := []models.TimeframeSignal{
		{Timeframe: models.Timeframe1Day, BiasScore: 10, Bias: models.BiasHold},
	}

	// A huge intraday move still only nudges by the cap of 10 points.
	livePct := 50.0
	overall := verdict.Aggregate(signals, &livePct)
	assert.InDelta(t, 20.0, overall.Score, 1e-9)

	livePct = -50.0
	overall = verdict.Aggregate(signals, &livePct)
	assert.InDelta(t, 0.0, overall.Score, 1e-9)
}

func TestAggregateConfidenceCappedOnDisagreement(t *testing.T) {
	verdict := defaultVerdict(map[models.Timeframe]float64{
		models.Timeframe1Hour: 0.8,
		models.Timeframe45Min: 0.1,
		models.Timeframe15Min: 0.1,
	})

	// The dominant timeframe drives the score above the HIGH tier, but only
	// one of three timeframes agrees with the direction.
	signals := []models.TimeframeSignal{
		{Timeframe: models.Timeframe1Hour, BiasScore: 90, Bias: models.BiasBuy},
		{Timeframe: models.Timeframe45Min, BiasScore: -10, Bias: models.BiasHold},
		{Timeframe: models.Timeframe15Min, BiasScore: -10, Bias: models.BiasHold},
	}

	overall := verdict.Aggregate(signals, nil)

	assert.Equal(t, models.BiasBuy, overall.Direction)
	assert.GreaterOrEqual(t, overall.Score, 60.0)
	assert.Equal(t, models.ConfidenceMedium, overall.Confidence)
}

func TestAggregateConfidenceHighWithAgreement(t *testing.T) {
	verdict := defaultVerdict(map[models.Timeframe]float64{
		models.Timeframe1Hour: 0.5,
		models.Timeframe1Day:  0.5,
	})

	signals := []models.TimeframeSignal{
		{Timeframe: models.Timeframe1Hour, BiasScore: 80, Bias: models.BiasBuy},
		{Timeframe: models.Timeframe1Day, BiasScore: 70, Bias: models.BiasBuy},
	}

	overall := verdict.Aggregate(signals, nil)

	assert.Equal(t, models.BiasBuy, overall.Direction)
	assert.Equal(t, models.ConfidenceHigh, overall.Confidence)
}

func TestAggregateEmptySignals(t *testing.T) {
	verdict := defaultVerdict(nil)

	overall := verdict.Aggregate(nil, nil)

	assert.Equal(t, models.BiasHold, overall.Direction)
	assert.Equal(t, models.ConfidenceLow, overall.Confidence)
	assert.Zero(t, overall.Score)
}
