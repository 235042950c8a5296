package models

import "time"

// OptionType distinguishes calls from puts.
type OptionType string

const (
	OptionCall OptionType = "CE"
	OptionPut  OptionType = "PE"
)

// ChainProvenance records where a canonical chain came from. Synthetic chains
// are never presented as live data; every analysis carries this flag.
type ChainProvenance string

const (
	ChainLive      ChainProvenance = "live"
	ChainSynthetic ChainProvenance = "synthetic"
)

// OptionLeg is the uniform leg schema every source adapter normalizes into.
// Strike is always positive; other numeric fields default to zero when the
// raw payload is missing or malformed.
type OptionLeg struct {
	TradingSymbol  string     `json:"trading_symbol"`
	InstrumentID   string     `json:"instrument_id"`
	Type           OptionType `json:"type"`
	Strike         float64    `json:"strike"`
	Expiry         time.Time  `json:"expiry"`
	LotSize        int        `json:"lot_size"`
	LastPrice      float64    `json:"last_price"`
	OpenInterest   int64      `json:"open_interest"`
	Volume         int64      `json:"volume"`
	BidPrice       float64    `json:"bid_price"`
	AskPrice       float64    `json:"ask_price"`
	Spread         float64    `json:"spread"`
	SpreadPercent  float64    `json:"spread_percent"`
	IV             float64    `json:"iv"`
	Delta          *float64   `json:"delta,omitempty"`
	Theta          *float64   `json:"theta,omitempty"`
}

// OptionChainRow is a strike with zero, one or two legs populated.
type OptionChainRow struct {
	Strike float64    `json:"strike"`
	Call   *OptionLeg `json:"call,omitempty"`
	Put    *OptionLeg `json:"put,omitempty"`
}

// OptionChain is a canonical, bounded strike ladder for one expiry.
type OptionChain struct {
	Symbol     string           `json:"symbol"`
	Source     string           `json:"source"`
	SpotPrice  float64          `json:"spot_price"`
	Expiry     time.Time        `json:"expiry"`
	Expiries   []time.Time      `json:"expiries"`
	Rows       []OptionChainRow `json:"rows"`
	Provenance ChainProvenance  `json:"provenance"`
}

// OptionChainAnalysis holds the analytics derived from a canonical chain.
type OptionChainAnalysis struct {
	PCR             float64          `json:"pcr"`
	MaxPainStrike   float64          `json:"max_pain_strike"`
	CallResistance  float64          `json:"call_resistance"`
	PutSupport      float64          `json:"put_support"`
	ATMIV           float64          `json:"atm_iv"`
	IVRank          *float64         `json:"iv_rank,omitempty"`
	IVPercentile    *float64         `json:"iv_percentile,omitempty"`
	Rows            []OptionChainRow `json:"rows"`
	Provenance      ChainProvenance  `json:"provenance"`
	Source          string           `json:"source"`
}

// RiskTier classifies the risk of an options recommendation.
type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM"
	RiskHigh   RiskTier = "HIGH"
)

// OptionsRecommendation is one ranked strategy suggestion. Rationale is a
// required field: the consuming operator has no other way to audit it.
type OptionsRecommendation struct {
	Action       Bias       `json:"action"`
	Type         OptionType `json:"type"`
	Strike       float64    `json:"strike"`
	ExpectedMove float64    `json:"expected_move"`
	Rationale    string     `json:"rationale"`
	Risk         RiskTier   `json:"risk"`
}

// MarketCondition classifies the prevailing regime for strategy selection.
type MarketCondition string

const (
	MarketTrending MarketCondition = "TRENDING"
	MarketRanging  MarketCondition = "RANGING"
)
