package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# MCX Signals Configuration

[symbol]
# Underlying commodity symbol
name = "NATURALGAS"
# Exchange segment
exchange = "MCX"
# Instrument tick size
tick_size = 0.10
# Contract lot size
lot_size = 1250

[analysis]
# Timeframes to analyze. The 45minute series is derived from 15minute
# candles by folding fold_factor consecutive candles into one.
timeframes = ["15minute", "45minute", "60minute", "day"]
fold_factor = 3

[analysis.timeframe_weights]
# Longer timeframes carry more weight: lower noise
"15minute" = 0.15
"45minute" = 0.20
"60minute" = 0.30
"day" = 0.35

[scoring]
# Indicator vote thresholds
rsi_oversold = 30.0
rsi_overbought = 70.0
stoch_oversold = 20.0
stoch_overbought = 80.0
# ADX below this gates out trend-following votes
adx_trend_floor = 25.0
# Score above +threshold = BUY, below -threshold = SELL, ties = HOLD
bias_threshold = 20.0
# Confidence tiers on |overall score|
confidence_high = 60.0
confidence_medium = 30.0
# Live intraday nudge: score += pct_change * factor, capped
live_nudge_factor = 2.0
live_nudge_cap = 10.0

[scoring.weights]
# Per-indicator vote weights; must sum to 100
rsi = 20.0
macd = 20.0
stochastic = 10.0
ema = 20.0
adx = 10.0
bollinger = 10.0
vwap = 10.0

[setup]
# Stop distance = ATR * risk_multiplier
risk_multiplier = 1.0
# Targets = entry +/- ATR * multiple
target1_multiple = 1.5
target2_multiple = 2.5

[chain]
# Maximum strikes kept in the canonical ladder
max_window = 30

# Synthetic bid/ask tiers for sources without depth, most liquid first
[[chain.spread_tiers]]
min_volume = 1000
min_oi = 3000
factor = 0.003

[[chain.spread_tiers]]
min_volume = 200
min_oi = 1000
factor = 0.006

[[chain.spread_tiers]]
min_volume = 0
min_oi = 0
factor = 0.012

[synthetic]
# Deterministic fallback ladder when no live chain is usable
strike_step = 5.0
strikes_per_side = 10
base_oi = 5000.0
oi_sigma = 3.0
time_value = 8.0
time_value_decay = 0.15
placeholder_iv = 35.0

[premium]
# Empirically tuned sanity bounds for the implied futures premium between a
# derived price and the live anchor. Tuning values, not a derived model.
min_percent = -1.5
max_percent = 4.0

[cache]
# Instrument metadata cache TTL in hours
instrument_ttl_hours = 6

[ui]
color_enabled = true
date_format = "02-Jan-2006"
`

// createTemplateConfig writes the default config template to the config dir.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
