// Package models provides domain models for the signal engine.
package models

import (
	"encoding/json"
	"time"
)

// Exchange represents an exchange segment.
type Exchange string

const (
	MCX Exchange = "MCX" // Commodity
	NSE Exchange = "NSE"
	NFO Exchange = "NFO" // F&O
)

// Bias represents a directional bias.
type Bias string

const (
	BiasBuy  Bias = "BUY"
	BiasSell Bias = "SELL"
	BiasHold Bias = "HOLD"
)

// Confidence represents the confidence tier of a verdict.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Timeframe represents a trading timeframe.
type Timeframe string

const (
	Timeframe15Min Timeframe = "15minute"
	Timeframe45Min Timeframe = "45minute"
	Timeframe1Hour Timeframe = "60minute"
	Timeframe1Day  Timeframe = "day"
)

// AllTimeframes returns all supported timeframes in ascending granularity.
func AllTimeframes() []Timeframe {
	return []Timeframe{Timeframe15Min, Timeframe45Min, Timeframe1Hour, Timeframe1Day}
}

// Candle represents OHLCV data for a time period. Candle series are ordered
// ascending by timestamp with no duplicates; a series is never mutated once
// produced.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// candleJSON is the wire shape of a candle: timestamps travel as epoch seconds.
type candleJSON struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// MarshalJSON encodes the candle with its timestamp as epoch seconds.
func (c Candle) MarshalJSON() ([]byte, error) {
	return json.Marshal(candleJSON{
		Time:   c.Timestamp.Unix(),
		Open:   c.Open,
		High:   c.High,
		Low:    c.Low,
		Close:  c.Close,
		Volume: c.Volume,
	})
}

// UnmarshalJSON decodes a candle whose timestamp is epoch seconds.
func (c *Candle) UnmarshalJSON(data []byte) error {
	var w candleJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.Timestamp = time.Unix(w.Time, 0).UTC()
	c.Open = w.Open
	c.High = w.High
	c.Low = w.Low
	c.Close = w.Close
	c.Volume = w.Volume
	return nil
}

// Quote represents a live anchor price supplied by the surrounding fetch
// layer. When present it overrides the most recent candle close before
// indicator computation; this is the engine's single documented
// non-determinism point.
type Quote struct {
	LTP           float64   `json:"ltp"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Timestamp     time.Time `json:"timestamp"`
}

// Instrument represents a tradeable instrument from a broker's instrument
// master dump.
type Instrument struct {
	InstrumentID string    `csv:"instrument_id" json:"instrument_id"`
	Symbol       string    `csv:"symbol" json:"symbol"`
	Name         string    `csv:"name" json:"name"`
	Exchange     Exchange  `csv:"exchange" json:"exchange"`
	Segment      string    `csv:"segment" json:"segment"`
	LotSize      int       `csv:"lot_size" json:"lot_size"`
	TickSize     float64   `csv:"tick_size" json:"tick_size"`
	Strike       float64   `csv:"strike" json:"strike"`
	InstrType    string    `csv:"instrument_type" json:"instrument_type"`
	ExpiryText   string    `csv:"expiry" json:"expiry"`
	Expiry       time.Time `csv:"-" json:"-"`
}
