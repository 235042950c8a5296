// Package aggregate resamples candle series into coarser timeframes.
package aggregate

import (
	"mcx-signals/internal/errors"
	"mcx-signals/internal/models"
)

// Fold folds every group of n consecutive candles into one: open from the
// first candle, close from the last, high/low from the group extremes,
// volume summed, timestamp from the first candle. A partial trailing group
// is still emitted from whatever candles remain; the most recent bar of a
// live session is always partial.
func Fold(candles []models.Candle, n int) ([]models.Candle, error) {
	if len(candles) == 0 {
		return nil, errors.ErrInsufficientData
	}
	if n <= 0 {
		return nil, errors.ErrInvalidPeriod
	}
	if n == 1 {
		out := make([]models.Candle, len(candles))
		copy(out, candles)
		return out, nil
	}

	out := make([]models.Candle, 0, (len(candles)+n-1)/n)
	for start := 0; start < len(candles); start += n {
		end := start + n
		if end > len(candles) {
			end = len(candles)
		}
		out = append(out, foldGroup(candles[start:end]))
	}
	return out, nil
}

func foldGroup(group []models.Candle) models.Candle {
	folded := models.Candle{
		Timestamp: group[0].Timestamp,
		Open:      group[0].Open,
		High:      group[0].High,
		Low:       group[0].Low,
		Close:     group[len(group)-1].Close,
	}
	for _, c := range group {
		if c.High > folded.High {
			folded.High = c.High
		}
		if c.Low < folded.Low {
			folded.Low = c.Low
		}
		folded.Volume += c.Volume
	}
	return folded
}
