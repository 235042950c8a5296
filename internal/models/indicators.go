package models

// PivotLevels represents classic pivot point levels computed from the most
// recently completed period's high/low/close.
type PivotLevels struct {
	Pivot float64 `json:"pivot"`
	R1    float64 `json:"r1"`
	R2    float64 `json:"r2"`
	R3    float64 `json:"r3"`
	S1    float64 `json:"s1"`
	S2    float64 `json:"s2"`
	S3    float64 `json:"s3"`
}

// IndicatorSet is the fixed indicator record computed per timeframe. A nil
// field means the series was too short for that indicator's lookback (or a
// denominator was zero); values are never extrapolated or zero-filled.
type IndicatorSet struct {
	RSI         *float64 `json:"rsi"`
	StochasticK *float64 `json:"stochastic_k"`
	StochasticD *float64 `json:"stochastic_d"`

	EMA20          *float64 `json:"ema20"`
	EMA50          *float64 `json:"ema50"`
	MACDLine       *float64 `json:"macd_line"`
	MACDSignal     *float64 `json:"macd_signal"`
	MACDHistogram  *float64 `json:"macd_histogram"`
	ADX            *float64 `json:"adx"`
	PlusDI         *float64 `json:"plus_di"`
	MinusDI        *float64 `json:"minus_di"`

	ATR            *float64 `json:"atr"`
	BollingerUpper *float64 `json:"bollinger_upper"`
	BollingerMid   *float64 `json:"bollinger_mid"`
	BollingerLower *float64 `json:"bollinger_lower"`

	VWAP *float64 `json:"vwap"`

	Pivots *PivotLevels `json:"pivots"`
}
