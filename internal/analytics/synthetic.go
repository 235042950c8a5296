package analytics

import (
	"math"
	"time"

	"mcx-signals/internal/config"
	"mcx-signals/internal/models"
)

// SyntheticBuilder generates a deterministic fallback ladder when no live
// source produced a usable chain. The output is plausible but explicitly
// synthetic: provenance is always ChainSynthetic and must never be presented
// as live data.
type SyntheticBuilder struct {
	cfg config.SyntheticConfig
}

// NewSyntheticBuilder creates a synthetic ladder builder.
func NewSyntheticBuilder(cfg config.SyntheticConfig) *SyntheticBuilder {
	return &SyntheticBuilder{cfg: cfg}
}

// Build generates the ladder: strikes centered on the round increment
// nearest spot, the configured count each side at a fixed step. Leg prices
// are intrinsic value plus a time-value term decaying exponentially with
// distance from spot; open interest follows a Gaussian centered at spot.
// The same inputs always produce the identical chain.
func (b *SyntheticBuilder) Build(symbol string, spot float64, expiry time.Time) *models.OptionChain {
	step := b.cfg.StrikeStep
	center := math.Round(spot/step) * step

	chain := &models.OptionChain{
		Symbol:     symbol,
		Source:     "synthetic",
		SpotPrice:  spot,
		Expiry:     expiry,
		Provenance: models.ChainSynthetic,
	}
	if !expiry.IsZero() {
		chain.Expiries = []time.Time{expiry}
	}

	for i := -b.cfg.StrikesPerSide; i <= b.cfg.StrikesPerSide; i++ {
		strike := center + float64(i)*step
		if strike <= 0 {
			continue
		}

		distance := math.Abs(strike-spot) / step
		timeValue := b.cfg.TimeValue * math.Exp(-b.cfg.TimeValueDecay*distance)
		oi := int64(b.cfg.BaseOI * math.Exp(-distance*distance/(2*b.cfg.OISigma*b.cfg.OISigma)))

		chain.Rows = append(chain.Rows, models.OptionChainRow{
			Strike: strike,
			Call:   b.leg(models.OptionCall, strike, expiry, math.Max(0, spot-strike)+timeValue, oi),
			Put:    b.leg(models.OptionPut, strike, expiry, math.Max(0, strike-spot)+timeValue, oi),
		})
	}

	return chain
}

func (b *SyntheticBuilder) leg(typ models.OptionType, strike float64, expiry time.Time, price float64, oi int64) *models.OptionLeg {
	return &models.OptionLeg{
		Type:         typ,
		Strike:       strike,
		Expiry:       expiry,
		LastPrice:    roundPrice(price),
		OpenInterest: oi,
		IV:           b.cfg.PlaceholderIV,
	}
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}
