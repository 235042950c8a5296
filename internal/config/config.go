// Package config provides configuration management for the signal engine.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	apperrors "mcx-signals/internal/errors"
	"mcx-signals/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Symbol    SymbolConfig    `mapstructure:"symbol"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Setup     SetupConfig     `mapstructure:"setup"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Synthetic SyntheticConfig `mapstructure:"synthetic"`
	Premium   PremiumConfig   `mapstructure:"premium"`
	Cache     CacheConfig     `mapstructure:"cache"`
	UI        UIConfig        `mapstructure:"ui"`
}

// SymbolConfig identifies the single underlying per invocation.
type SymbolConfig struct {
	Name     string  `mapstructure:"name"`
	Exchange string  `mapstructure:"exchange"`
	TickSize float64 `mapstructure:"tick_size"`
	LotSize  int     `mapstructure:"lot_size"`
}

// AnalysisConfig holds timeframe selection and aggregation parameters.
type AnalysisConfig struct {
	Timeframes       []string           `mapstructure:"timeframes"`
	TimeframeWeights map[string]float64 `mapstructure:"timeframe_weights"`
	FoldFactor       int                `mapstructure:"fold_factor"`
}

// ScoringConfig holds indicator vote thresholds and the per-indicator weight
// table. Weights sum to 100; a vote contributes its weight with the sign of
// its direction.
type ScoringConfig struct {
	Weights IndicatorWeights `mapstructure:"weights"`

	RSIOversold     float64 `mapstructure:"rsi_oversold"`
	RSIOverbought   float64 `mapstructure:"rsi_overbought"`
	StochOversold   float64 `mapstructure:"stoch_oversold"`
	StochOverbought float64 `mapstructure:"stoch_overbought"`
	ADXTrendFloor   float64 `mapstructure:"adx_trend_floor"`

	// BiasThreshold is the symmetric cut for BUY/SELL; a score exactly at the
	// threshold resolves to HOLD, the conservative branch.
	BiasThreshold float64 `mapstructure:"bias_threshold"`

	ConfidenceHigh   float64 `mapstructure:"confidence_high"`
	ConfidenceMedium float64 `mapstructure:"confidence_medium"`

	// LiveNudgeFactor scales the intraday percent change added to the overall
	// score when a live anchor is supplied; LiveNudgeCap bounds the nudge.
	LiveNudgeFactor float64 `mapstructure:"live_nudge_factor"`
	LiveNudgeCap    float64 `mapstructure:"live_nudge_cap"`
}

// IndicatorWeights defines the contribution of each indicator vote.
type IndicatorWeights struct {
	RSI        float64 `mapstructure:"rsi"`
	MACD       float64 `mapstructure:"macd"`
	Stochastic float64 `mapstructure:"stochastic"`
	EMA        float64 `mapstructure:"ema"`
	ADX        float64 `mapstructure:"adx"`
	Bollinger  float64 `mapstructure:"bollinger"`
	VWAP       float64 `mapstructure:"vwap"`
}

// Sum returns the total of all weights.
func (w IndicatorWeights) Sum() float64 {
	return w.RSI + w.MACD + w.Stochastic + w.EMA + w.ADX + w.Bollinger + w.VWAP
}

// SetupConfig holds futures trade-plan parameters.
type SetupConfig struct {
	RiskMultiplier  float64 `mapstructure:"risk_multiplier"`
	Target1Multiple float64 `mapstructure:"target1_multiple"`
	Target2Multiple float64 `mapstructure:"target2_multiple"`
}

// SpreadTier synthesizes bid/ask spreads for legs without depth: the spread
// factor shrinks as volume and open interest grow.
type SpreadTier struct {
	MinVolume int64   `mapstructure:"min_volume"`
	MinOI     int64   `mapstructure:"min_oi"`
	Factor    float64 `mapstructure:"factor"`
}

// ChainConfig holds option-chain normalization parameters.
type ChainConfig struct {
	MaxWindow   int          `mapstructure:"max_window"`
	SpreadTiers []SpreadTier `mapstructure:"spread_tiers"`
}

// SyntheticConfig parameterizes the deterministic fallback ladder.
type SyntheticConfig struct {
	StrikeStep     float64 `mapstructure:"strike_step"`
	StrikesPerSide int     `mapstructure:"strikes_per_side"`
	BaseOI         float64 `mapstructure:"base_oi"`
	OISigma        float64 `mapstructure:"oi_sigma"`
	TimeValue      float64 `mapstructure:"time_value"`
	TimeValueDecay float64 `mapstructure:"time_value_decay"`
	PlaceholderIV  float64 `mapstructure:"placeholder_iv"`
}

// PremiumConfig preserves the empirically tuned sanity bounds for the implied
// futures premium between a derived price and the live anchor. These are
// non-normative tuning values, not a derived model.
type PremiumConfig struct {
	MinPercent float64 `mapstructure:"min_percent"`
	MaxPercent float64 `mapstructure:"max_percent"`
}

// CacheConfig holds the instrument-metadata cache policy.
type CacheConfig struct {
	InstrumentTTLHours int `mapstructure:"instrument_ttl_hours"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		Symbol: SymbolConfig{
			Name:     "NATURALGAS",
			Exchange: "MCX",
			TickSize: 0.10,
			LotSize:  1250,
		},
		Analysis: AnalysisConfig{
			Timeframes: []string{
				string(models.Timeframe15Min),
				string(models.Timeframe45Min),
				string(models.Timeframe1Hour),
				string(models.Timeframe1Day),
			},
			TimeframeWeights: map[string]float64{
				string(models.Timeframe15Min): 0.15,
				string(models.Timeframe45Min): 0.20,
				string(models.Timeframe1Hour): 0.30,
				string(models.Timeframe1Day):  0.35,
			},
			FoldFactor: 3,
		},
		Scoring: ScoringConfig{
			Weights: IndicatorWeights{
				RSI:        20,
				MACD:       20,
				Stochastic: 10,
				EMA:        20,
				ADX:        10,
				Bollinger:  10,
				VWAP:       10,
			},
			RSIOversold:      30,
			RSIOverbought:    70,
			StochOversold:    20,
			StochOverbought:  80,
			ADXTrendFloor:    25,
			BiasThreshold:    20,
			ConfidenceHigh:   60,
			ConfidenceMedium: 30,
			LiveNudgeFactor:  2.0,
			LiveNudgeCap:     10,
		},
		Setup: SetupConfig{
			RiskMultiplier:  1.0,
			Target1Multiple: 1.5,
			Target2Multiple: 2.5,
		},
		Chain: ChainConfig{
			MaxWindow: 30,
			SpreadTiers: []SpreadTier{
				{MinVolume: 1000, MinOI: 3000, Factor: 0.003},
				{MinVolume: 200, MinOI: 1000, Factor: 0.006},
				{MinVolume: 0, MinOI: 0, Factor: 0.012},
			},
		},
		Synthetic: SyntheticConfig{
			StrikeStep:     5.0,
			StrikesPerSide: 10,
			BaseOI:         5000,
			OISigma:        3.0,
			TimeValue:      8.0,
			TimeValueDecay: 0.15,
			PlaceholderIV:  35.0,
		},
		Premium: PremiumConfig{
			MinPercent: -1.5,
			MaxPercent: 4.0,
		},
		Cache: CacheConfig{
			InstrumentTTLHours: 6,
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "02-Jan-2006",
		},
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/mcx-signals"
	}
	return filepath.Join(home, ".config", "mcx-signals")
}

// Load loads configuration from the specified directory, creating a template
// on first run. If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return nil, fmt.Errorf("creating config template: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MCX_SIGNALS_SYMBOL"); v != "" {
		cfg.Symbol.Name = v
	}
	if v := os.Getenv("MCX_SIGNALS_EXCHANGE"); v != "" {
		cfg.Symbol.Exchange = v
	}
}

// invalid builds a validation failure carrying the ErrConfigInvalid sentinel.
func invalid(format string, args ...interface{}) error {
	return apperrors.Wrapf(apperrors.ErrConfigInvalid, format, args...)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Analysis.Timeframes) == 0 {
		return invalid("at least one timeframe is required")
	}
	for _, tf := range c.Analysis.Timeframes {
		if _, ok := c.Analysis.TimeframeWeights[tf]; !ok {
			return invalid("timeframe %s has no weight", tf)
		}
	}
	if c.Analysis.FoldFactor < 1 {
		return invalid("fold_factor must be at least 1")
	}
	if s := c.Scoring.Weights.Sum(); math.Abs(s-100) > 1e-9 {
		return invalid("indicator weights must sum to 100, got %.2f", s)
	}
	if c.Scoring.BiasThreshold <= 0 || c.Scoring.BiasThreshold >= 100 {
		return invalid("bias_threshold must be in (0, 100)")
	}
	if c.Scoring.ConfidenceMedium >= c.Scoring.ConfidenceHigh {
		return invalid("confidence_medium must be below confidence_high")
	}
	if c.Setup.RiskMultiplier <= 0 {
		return invalid("risk_multiplier must be positive")
	}
	if c.Setup.Target1Multiple <= 0 || c.Setup.Target2Multiple <= c.Setup.Target1Multiple {
		return invalid("target multiples must be positive and increasing")
	}
	if c.Chain.MaxWindow < 1 {
		return invalid("max_window must be at least 1")
	}
	if len(c.Chain.SpreadTiers) == 0 {
		return invalid("at least one spread tier is required")
	}
	if c.Synthetic.StrikeStep <= 0 || c.Synthetic.StrikesPerSide < 1 {
		return invalid("synthetic ladder parameters must be positive")
	}
	if c.Premium.MinPercent >= c.Premium.MaxPercent {
		return invalid("premium min_percent must be below max_percent")
	}
	if c.Cache.InstrumentTTLHours < 1 {
		return invalid("instrument_ttl_hours must be at least 1")
	}
	return nil
}
