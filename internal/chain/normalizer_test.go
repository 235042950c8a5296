package chain

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcx-signals/internal/config"
	apperrors "mcx-signals/internal/errors"
	"mcx-signals/internal/models"
)

var testClock = func() time.Time {
	return time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
}

func testNormalizer(maxWindow int) *Normalizer {
	cfg := config.ChainConfig{
		MaxWindow: maxWindow,
		SpreadTiers: []config.SpreadTier{
			{MinVolume: 1000, MinOI: 3000, Factor: 0.003},
			{MinVolume: 200, MinOI: 1000, Factor: 0.006},
			{MinVolume: 0, MinOI: 0, Factor: 0.012},
		},
	}
	return NewNormalizer(cfg, 0.05, DefaultRegistry(), testClock, zerolog.Nop())
}

func dhanPayload(spot float64, strikes []float64) []byte {
	oc := make(map[string]interface{}, len(strikes))
	for _, s := range strikes {
		oc[fmt.Sprintf("%.6f", s)] = map[string]interface{}{
			"ce": map[string]interface{}{
				"last_price": 10.5, "oi": 5000, "volume": 1500,
				"implied_volatility": 32.0,
			},
			"pe": map[string]interface{}{
				"last_price": 8.2, "oi": 4000, "volume": 900,
				"implied_volatility": 34.0,
			},
		}
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"expiry":   "2026-08-26",
		"expiries": []string{"2026-08-26", "2026-09-24"},
		"data": map[string]interface{}{
			"last_price": spot,
			"oc":         oc,
		},
	})
	return payload
}

func TestNormalizeDhanChain(t *testing.T) {
	n := testNormalizer(30)

	chain, report, err := n.Normalize("dhan", "NATURALGAS", dhanPayload(245.0, []float64{240, 245, 250}))
	require.NoError(t, err)
	assert.False(t, report.HasIssues())

	assert.Equal(t, "dhan", chain.Source)
	assert.Equal(t, models.ChainLive, chain.Provenance)
	assert.InDelta(t, 245.0, chain.SpotPrice, 1e-9)
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), chain.Expiry)
	require.Len(t, chain.Rows, 3)

	// Strikes ascending with both legs populated
	assert.InDelta(t, 240.0, chain.Rows[0].Strike, 1e-9)
	assert.InDelta(t, 250.0, chain.Rows[2].Strike, 1e-9)
	require.NotNil(t, chain.Rows[0].Call)
	require.NotNil(t, chain.Rows[0].Put)
	assert.Equal(t, chain.Expiry, chain.Rows[0].Call.Expiry)
}

func TestNormalizeRoundTripDeterministic(t *testing.T) {
	n := testNormalizer(30)
	payload := dhanPayload(245.0, []float64{235, 240, 245, 250, 255})

	first, _, err := n.Normalize("dhan", "NATURALGAS", payload)
	require.NoError(t, err)
	second, _, err := n.Normalize("dhan", "NATURALGAS", payload)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestNormalizeWindowTrimCentered(t *testing.T) {
	n := testNormalizer(10)

	strikes := make([]float64, 40)
	for i := range strikes {
		strikes[i] = 200 + float64(i)*5
	}
	spot := 300.0

	chain, _, err := n.Normalize("dhan", "NATURALGAS", dhanPayload(spot, strikes))
	require.NoError(t, err)
	require.Len(t, chain.Rows, 10)

	// The strike nearest spot must sit within one row of the window center.
	center := -1
	best := math.Inf(1)
	for i, row := range chain.Rows {
		if d := math.Abs(row.Strike - spot); d < best {
			best = d
			center = i
		}
	}
	assert.InDelta(t, float64(len(chain.Rows)/2), float64(center), 1.0)
}

func TestNormalizeWindowClippedAtBounds(t *testing.T) {
	n := testNormalizer(10)

	strikes := make([]float64, 20)
	for i := range strikes {
		strikes[i] = 200 + float64(i)*5
	}

	// Spot below the lowest strike: the window clips to the low end.
	chain, _, err := n.Normalize("dhan", "NATURALGAS", dhanPayload(150.0, strikes))
	require.NoError(t, err)
	require.Len(t, chain.Rows, 10)
	assert.InDelta(t, 200.0, chain.Rows[0].Strike, 1e-9)
}

func TestNormalizeSynthesizesSpread(t *testing.T) {
	n := testNormalizer(30)

	chain, _, err := n.Normalize("dhan", "NATURALGAS", dhanPayload(245.0, []float64{245}))
	require.NoError(t, err)
	require.Len(t, chain.Rows, 1)

	// CE: volume 1500, OI 5000 hits the tightest tier (0.3%); last 10.5 gives
	// half-spread 0.01575, rounded to the 0.05 tick.
	ce := chain.Rows[0].Call
	assert.Greater(t, ce.AskPrice, 0.0)
	assert.GreaterOrEqual(t, ce.AskPrice, ce.BidPrice)
	assert.InDelta(t, ce.AskPrice-ce.BidPrice, ce.Spread, 1e-9)
	assert.InDelta(t, math.Round(ce.BidPrice/0.05)*0.05, ce.BidPrice, 1e-9)

	// PE: volume 900, OI 4000 falls to the middle tier (0.6%).
	pe := chain.Rows[0].Put
	assert.GreaterOrEqual(t, pe.AskPrice, pe.BidPrice)
}

func TestNormalizeMalformedLegsDefaultToZero(t *testing.T) {
	n := testNormalizer(30)

	payload, _ := json.Marshal(map[string]interface{}{
		"expiry": "2026-08-26",
		"data": map[string]interface{}{
			"last_price": 245.0,
			"oc": map[string]interface{}{
				"240.000000": map[string]interface{}{
					"ce": map[string]interface{}{
						"last_price": "not-a-number",
						"oi":         5000,
					},
				},
			},
		},
	})

	chain, report, err := n.Normalize("dhan", "NATURALGAS", payload)
	require.NoError(t, err)
	assert.True(t, report.HasIssues())
	require.Len(t, chain.Rows, 1)
	assert.Zero(t, chain.Rows[0].Call.LastPrice)
	assert.Equal(t, int64(5000), chain.Rows[0].Call.OpenInterest)
}

func TestNormalizeEmptyChainFailsSoftly(t *testing.T) {
	n := testNormalizer(30)

	payload, _ := json.Marshal(map[string]interface{}{
		"expiry": "2026-08-26",
		"data":   map[string]interface{}{"last_price": 245.0, "oc": map[string]interface{}{}},
	})

	_, _, err := n.Normalize("dhan", "NATURALGAS", payload)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSourceUnavailable))
}

func TestNormalizeUnknownSource(t *testing.T) {
	n := testNormalizer(30)

	_, _, err := n.Normalize("unknown-broker", "NATURALGAS", []byte(`{}`))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnknownSource))
}

func TestDefaultRegistrySources(t *testing.T) {
	assert.Equal(t, []string{"dhan", "rupeezy"}, DefaultRegistry().Sources())
}

func TestNormalizeRupeezyChain(t *testing.T) {
	n := testNormalizer(30)

	expiry := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC).Unix()
	payload, _ := json.Marshal(map[string]interface{}{
		"spot_price": 245.0,
		"expiries":   []int64{expiry},
		"options": []map[string]interface{}{
			{
				"strike_price": 240.0, "option_type": "CE", "ltp": 11.0,
				"open_interest": 3500, "traded_volume": 1200, "expiry": expiry,
				"depth": map[string]interface{}{
					"buy":  []map[string]interface{}{{"price": 10.9}},
					"sell": []map[string]interface{}{{"price": 11.1}},
				},
			},
			{
				"strike_price": 240.0, "option_type": "PE", "ltp": 6.5,
				"open_interest": 2800, "traded_volume": 700, "expiry": expiry,
			},
		},
	})

	chain, report, err := n.Normalize("rupeezy", "NATURALGAS", payload)
	require.NoError(t, err)
	assert.False(t, report.HasIssues())
	require.Len(t, chain.Rows, 1)

	ce := chain.Rows[0].Call
	require.NotNil(t, ce)
	// Real depth survives: no synthetic spread applied.
	assert.InDelta(t, 10.9, ce.BidPrice, 1e-9)
	assert.InDelta(t, 11.1, ce.AskPrice, 1e-9)

	pe := chain.Rows[0].Put
	require.NotNil(t, pe)
	// No depth: spread synthesized from last price.
	assert.Greater(t, pe.AskPrice, pe.BidPrice)
}

func TestSelectExpiry(t *testing.T) {
	now := testClock()
	past := now.AddDate(0, -1, 0)
	near := now.AddDate(0, 0, 6)
	far := now.AddDate(0, 1, 0)

	assert.Equal(t, near, selectExpiry([]time.Time{far, near, past}, now))
	// All in the past: fall back to the earliest.
	assert.Equal(t, past, selectExpiry([]time.Time{past, past.AddDate(0, 0, 7)}, now))
	assert.True(t, selectExpiry(nil, now).IsZero())
}
