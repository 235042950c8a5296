package indicators

import (
	"fmt"

	"mcx-signals/internal/models"
)

// EMA calculates the Exponential Moving Average.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator.
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("EMA_%d", e.period)
}

func (e *EMA) Period() int {
	return e.period
}

func (e *EMA) Calculate(candles []models.Candle) ([]float64, error) {
	if e.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < e.period {
		return nil, ErrInsufficientData
	}

	result := make([]float64, len(candles))
	closes := closePrices(candles)
	multiplier := 2.0 / float64(e.period+1)

	// First EMA is SMA
	result[e.period-1] = mean(closes[:e.period])

	for i := e.period; i < len(candles); i++ {
		result[i] = (closes[i]-result[i-1])*multiplier + result[i-1]
	}

	return result, nil
}

// CalculateEMA calculates EMA on raw values (helper for other indicators).
func CalculateEMA(values []float64, period int) []float64 {
	if len(values) < period || period <= 0 {
		return nil
	}

	result := make([]float64, len(values))
	multiplier := 2.0 / float64(period+1)

	result[period-1] = mean(values[:period])

	for i := period; i < len(values); i++ {
		result[i] = (values[i]-result[i-1])*multiplier + result[i-1]
	}

	return result
}

// MACD calculates Moving Average Convergence Divergence.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with the conventional periods (12, 26, 9).
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD_%d_%d_%d", m.fastPeriod, m.slowPeriod, m.signalPeriod)
}

func (m *MACD) Period() int {
	return m.slowPeriod + m.signalPeriod - 1
}

func (m *MACD) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if m.fastPeriod <= 0 || m.slowPeriod <= 0 || m.signalPeriod <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < m.Period() {
		return nil, ErrInsufficientData
	}

	closes := closePrices(candles)
	fastEMA := CalculateEMA(closes, m.fastPeriod)
	slowEMA := CalculateEMA(closes, m.slowPeriod)

	// MACD Line = Fast EMA - Slow EMA
	macdLine := make([]float64, len(candles))
	for i := m.slowPeriod - 1; i < len(candles); i++ {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	// Signal Line = EMA of MACD Line
	signalLine := make([]float64, len(candles))
	startIdx := m.slowPeriod - 1
	macdValues := macdLine[startIdx:]
	signalEMA := CalculateEMA(macdValues, m.signalPeriod)
	for i := 0; i < len(signalEMA); i++ {
		signalLine[startIdx+i] = signalEMA[i]
	}

	// Histogram = MACD Line - Signal Line
	histogram := make([]float64, len(candles))
	for i := m.Period() - 1; i < len(candles); i++ {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	return map[string][]float64{
		"macd":      macdLine,
		"signal":    signalLine,
		"histogram": histogram,
	}, nil
}

// ADX calculates Average Directional Index with +DI and -DI.
type ADX struct {
	period int
}

// NewADX creates a new ADX indicator.
func NewADX(period int) *ADX {
	return &ADX{period: period}
}

func (a *ADX) Name() string {
	return fmt.Sprintf("ADX_%d", a.period)
}

func (a *ADX) Period() int {
	return a.period * 2
}

func (a *ADX) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if a.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < a.Period() {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)

	for i := 1; i < n; i++ {
		upMove := candles[i].High - candles[i-1].High
		downMove := candles[i-1].Low - candles[i].Low

		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
		tr[i] = trueRange(candles[i], candles[i-1])
	}

	// Smooth using Wilder's method
	smoothPlusDM := wilderSmooth(plusDM, a.period)
	smoothMinusDM := wilderSmooth(minusDM, a.period)
	smoothTR := wilderSmooth(tr, a.period)

	plusDI := make([]float64, n)
	minusDI := make([]float64, n)
	dx := make([]float64, n)

	for i := a.period; i < n; i++ {
		if smoothTR[i] != 0 {
			plusDI[i] = 100 * smoothPlusDM[i] / smoothTR[i]
			minusDI[i] = 100 * smoothMinusDM[i] / smoothTR[i]
		}
		diSum := plusDI[i] + minusDI[i]
		if diSum != 0 {
			dx[i] = 100 * abs(plusDI[i]-minusDI[i]) / diSum
		}
	}

	// ADX is smoothed DX
	adx := wilderSmooth(dx[a.period:], a.period)
	adxResult := make([]float64, n)
	for i := 0; i < len(adx); i++ {
		adxResult[a.period+i] = adx[i]
	}

	return map[string][]float64{
		"adx":      adxResult,
		"plus_di":  plusDI,
		"minus_di": minusDI,
	}, nil
}
