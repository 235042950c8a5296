package indicators

import (
	"mcx-signals/internal/models"
)

// StandardPivotPoints calculates classic pivot points from one completed
// period's high/low/close.
type StandardPivotPoints struct{}

// NewStandardPivotPoints creates a new Standard Pivot Points calculator.
func NewStandardPivotPoints() *StandardPivotPoints {
	return &StandardPivotPoints{}
}

func (s *StandardPivotPoints) Name() string {
	return "StandardPivotPoints"
}

func (s *StandardPivotPoints) Period() int {
	return 1
}

// Calculate calculates pivot points from the previous period's HLC.
func (s *StandardPivotPoints) Calculate(high, low, close float64) *models.PivotLevels {
	pivot := (high + low + close) / 3

	return &models.PivotLevels{
		Pivot: pivot,
		R1:    2*pivot - low,
		R2:    pivot + (high - low),
		R3:    high + 2*(pivot-low),
		S1:    2*pivot - high,
		S2:    pivot - (high - low),
		S3:    low - 2*(high-pivot),
	}
}

// CalculateFromCandle calculates pivot points from a candle.
func (s *StandardPivotPoints) CalculateFromCandle(candle models.Candle) *models.PivotLevels {
	return s.Calculate(candle.High, candle.Low, candle.Close)
}

// CalculateFromCandles calculates pivot points from the most recently
// completed period: the second-to-last candle when the series holds more than
// one, since the last candle of a live series may still be forming.
func (s *StandardPivotPoints) CalculateFromCandles(candles []models.Candle) (*models.PivotLevels, error) {
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}
	if len(candles) == 1 {
		return s.CalculateFromCandle(candles[0]), nil
	}
	return s.CalculateFromCandle(candles[len(candles)-2]), nil
}
