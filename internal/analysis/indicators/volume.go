package indicators

import (
	"mcx-signals/internal/models"
)

// VWAP calculates Volume Weighted Average Price across the whole supplied
// series. There is no rolling window: the accumulation resets only when a
// fresh series is supplied.
type VWAP struct{}

// NewVWAP creates a new VWAP indicator.
func NewVWAP() *VWAP {
	return &VWAP{}
}

func (v *VWAP) Name() string {
	return "VWAP"
}

func (v *VWAP) Period() int {
	return 1
}

func (v *VWAP) Calculate(candles []models.Candle) ([]float64, error) {
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)

	var cumulativeTPV float64 // Cumulative Typical Price * Volume
	var cumulativeVol float64

	for i := 0; i < n; i++ {
		tp := typicalPrice(candles[i])
		cumulativeTPV += tp * float64(candles[i].Volume)
		cumulativeVol += float64(candles[i].Volume)

		if cumulativeVol != 0 {
			result[i] = cumulativeTPV / cumulativeVol
		}
	}

	return result, nil
}
