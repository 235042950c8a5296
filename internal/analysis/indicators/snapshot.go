// Package indicators provides technical indicator calculations and the fixed
// per-timeframe indicator snapshot.
package indicators

import (
	"math"

	"mcx-signals/internal/models"
)

// Standard lookbacks for the fixed indicator set.
const (
	RSIPeriod        = 14
	StochKPeriod     = 14
	StochDPeriod     = 3
	StochSmooth      = 3
	EMAFastPeriod    = 20
	EMASlowPeriod    = 50
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	ADXPeriod        = 14
	ATRPeriod        = 14
	BollingerPeriod  = 20
	BollingerStdDev  = 2.0
)

// Snapshot computes the fixed indicator set for one candle series. A field is
// nil when the series is shorter than that indicator's lookback or a
// denominator was zero; values are never extrapolated, zero-filled, NaN or
// infinite.
func Snapshot(candles []models.Candle) models.IndicatorSet {
	var set models.IndicatorSet
	if len(candles) == 0 {
		return set
	}
	n := len(candles)

	if values, err := NewRSI(RSIPeriod).Calculate(candles); err == nil {
		set.RSI = finite(values[n-1])
	}

	if values, err := NewStochastic(StochKPeriod, StochDPeriod, StochSmooth).Calculate(candles); err == nil {
		set.StochasticK = finite(values["percent_k"][n-1])
		set.StochasticD = finite(values["percent_d"][n-1])
	}

	if values, err := NewEMA(EMAFastPeriod).Calculate(candles); err == nil {
		set.EMA20 = finite(values[n-1])
	}
	if values, err := NewEMA(EMASlowPeriod).Calculate(candles); err == nil {
		set.EMA50 = finite(values[n-1])
	}

	if values, err := NewMACD(MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod).Calculate(candles); err == nil {
		set.MACDLine = finite(values["macd"][n-1])
		set.MACDSignal = finite(values["signal"][n-1])
		set.MACDHistogram = finite(values["histogram"][n-1])
	}

	if values, err := NewADX(ADXPeriod).Calculate(candles); err == nil {
		set.ADX = finite(values["adx"][n-1])
		set.PlusDI = finite(values["plus_di"][n-1])
		set.MinusDI = finite(values["minus_di"][n-1])
	}

	if values, err := NewATR(ATRPeriod).Calculate(candles); err == nil {
		set.ATR = finite(values[n-1])
	}

	if values, err := NewBollingerBands(BollingerPeriod, BollingerStdDev).Calculate(candles); err == nil {
		set.BollingerUpper = finite(values["upper"][n-1])
		set.BollingerMid = finite(values["middle"][n-1])
		set.BollingerLower = finite(values["lower"][n-1])
	}

	if values, err := NewVWAP().Calculate(candles); err == nil {
		// A zero VWAP means the series carried no volume at all
		if values[n-1] != 0 {
			set.VWAP = finite(values[n-1])
		}
	}

	if pivots, err := NewStandardPivotPoints().CalculateFromCandles(candles); err == nil {
		set.Pivots = pivots
	}

	return set
}

// finite returns a pointer to v, or nil when v is NaN or infinite.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
