package models

import "time"

// TimeframeSignal holds one timeframe's computed bias and indicator set.
// Created once per invocation per timeframe; never mutated afterwards.
type TimeframeSignal struct {
	Timeframe      Timeframe    `json:"timeframe"`
	Bias           Bias         `json:"bias"`
	BiasScore      float64      `json:"bias_score"` // [-100, +100]
	Indicators     IndicatorSet `json:"indicators"`
	LastPrice      float64      `json:"last_price"`
	ReferenceClose float64      `json:"reference_close"`
	PriceChange    float64      `json:"price_change"`
	ChangePercent  float64      `json:"change_percent"`
	CandleCount    int          `json:"candle_count"`
}

// OverallSignal is the aggregated multi-timeframe verdict. The score is a
// deterministic function of the timeframe bias scores and weights.
type OverallSignal struct {
	Direction  Bias       `json:"direction"`
	Confidence Confidence `json:"confidence"`
	Score      float64    `json:"score"` // [-100, +100]
}

// FuturesSetup is an ATR-derived trade plan for one timeframe. A HOLD setup
// carries entry only: stop and targets equal entry and risk-reward is zero,
// so callers must check Direction before acting on the levels.
type FuturesSetup struct {
	Timeframe       Timeframe `json:"timeframe"`
	Direction       Bias      `json:"direction"`
	Entry           float64   `json:"entry"`
	StopLoss        float64   `json:"stop_loss"`
	Target1         float64   `json:"target1"`
	Target2         float64   `json:"target2"`
	RiskRewardRatio float64   `json:"risk_reward_ratio"`
	ATRValue        float64   `json:"atr_value"`
	Advisory        bool      `json:"advisory"` // ATR was unusable; levels are indicative only
	Rationale       string    `json:"rationale"`
}

// Snapshot is the single response record produced per invocation. It is the
// engine's only boundary artifact.
type Snapshot struct {
	Symbol           string                      `json:"symbol"`
	Timestamp        time.Time                   `json:"timestamp"`
	CurrentPrice     float64                     `json:"current_price"`
	Overall          OverallSignal               `json:"overall"`
	Timeframes       []TimeframeSignal           `json:"timeframes"`
	Setups           map[Timeframe]*FuturesSetup `json:"setups"`
	Recommendations  []OptionsRecommendation     `json:"recommendations"`
	ChainAnalysis    *OptionChainAnalysis        `json:"chain_analysis"`
	Summary          string                      `json:"summary"`
}
