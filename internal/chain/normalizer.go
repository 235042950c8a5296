package chain

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"mcx-signals/internal/config"
	apperrors "mcx-signals/internal/errors"
	"mcx-signals/internal/logging"
	"mcx-signals/internal/models"
)

// Normalizer turns any adapter's RawChain into the canonical bounded ladder.
// The output contract is identical regardless of source. Normalization is a
// pure function of the payload and the injected clock, so the same payload
// always produces identical output.
type Normalizer struct {
	cfg      config.ChainConfig
	tickSize float64
	registry *Registry
	now      func() time.Time
	log      zerolog.Logger
}

// NewNormalizer creates a normalizer. A nil now falls back to time.Now.
func NewNormalizer(cfg config.ChainConfig, tickSize float64, registry *Registry, now func() time.Time, log zerolog.Logger) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{
		cfg:      cfg,
		tickSize: tickSize,
		registry: registry,
		now:      now,
		log:      log,
	}
}

// Normalize parses one source's payload and produces the canonical chain.
// It fails softly: a payload that yields zero usable rows returns
// ErrSourceUnavailable so the caller can fall back to another source or a
// synthetic ladder.
func (n *Normalizer) Normalize(source, symbol string, payload []byte) (*models.OptionChain, *apperrors.ParseReport, error) {
	adapter, err := n.registry.Lookup(source)
	if err != nil {
		return nil, nil, err
	}

	raw, report, err := adapter.Parse(payload)
	if err != nil {
		return nil, report, err
	}
	if report.HasIssues() {
		srcLog := logging.WithSource(n.log, source)
		srcLog.Warn().
			Int("issues", len(report.Issues)).
			Msg("option chain parsed with malformed legs")
	}

	expiry := selectExpiry(raw.Expiries, n.now())
	rows := n.buildRows(raw, expiry)
	if len(rows) == 0 {
		return nil, report, apperrors.NewSourceError(source, "no usable rows", apperrors.ErrSourceUnavailable)
	}

	rows = n.trimWindow(rows, raw.SpotPrice)
	for i := range rows {
		n.synthesizeSpread(rows[i].Call)
		n.synthesizeSpread(rows[i].Put)
	}

	return &models.OptionChain{
		Symbol:     symbol,
		Source:     source,
		SpotPrice:  raw.SpotPrice,
		Expiry:     expiry,
		Expiries:   raw.Expiries,
		Rows:       rows,
		Provenance: models.ChainLive,
	}, report, nil
}

// selectExpiry picks the nearest expiry on or after now, falling back to the
// earliest available when all are in the past.
func selectExpiry(expiries []time.Time, now time.Time) time.Time {
	if len(expiries) == 0 {
		return time.Time{}
	}

	sorted := make([]time.Time, len(expiries))
	copy(sorted, expiries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	for _, e := range sorted {
		if !e.Before(now.Truncate(24 * time.Hour)) {
			return e
		}
	}
	return sorted[0]
}

// buildRows groups legs of the selected expiry by strike, ascending. Legs
// with a zero expiry are kept: single-expiry sources omit per-leg expiries.
func (n *Normalizer) buildRows(raw *RawChain, expiry time.Time) []models.OptionChainRow {
	byStrike := make(map[float64]*models.OptionChainRow)

	for i := range raw.Legs {
		leg := raw.Legs[i]
		if leg.Strike <= 0 {
			continue
		}
		if !leg.Expiry.IsZero() && !expiry.IsZero() && !sameDay(leg.Expiry, expiry) {
			continue
		}

		row, ok := byStrike[leg.Strike]
		if !ok {
			row = &models.OptionChainRow{Strike: leg.Strike}
			byStrike[leg.Strike] = row
		}
		if leg.Type == models.OptionCall {
			row.Call = &leg
		} else {
			row.Put = &leg
		}
	}

	rows := make([]models.OptionChainRow, 0, len(byStrike))
	for _, row := range byStrike {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Strike < rows[j].Strike })
	return rows
}

// trimWindow bounds the ladder to the configured window, centered on the
// strike nearest spot with half the window on each side, clipped at the
// array bounds.
func (n *Normalizer) trimWindow(rows []models.OptionChainRow, spot float64) []models.OptionChainRow {
	if len(rows) <= n.cfg.MaxWindow {
		return rows
	}

	center := 0
	best := math.Inf(1)
	for i, row := range rows {
		if d := math.Abs(row.Strike - spot); d < best {
			best = d
			center = i
		}
	}

	start := center - n.cfg.MaxWindow/2
	if start < 0 {
		start = 0
	}
	if start+n.cfg.MaxWindow > len(rows) {
		start = len(rows) - n.cfg.MaxWindow
	}
	return rows[start : start+n.cfg.MaxWindow]
}

// synthesizeSpread fills bid/ask for legs without depth using the tiered
// spread model, then derives spread and spread-percent for every leg. The
// factor shrinks as volume and open interest grow; prices round to the
// instrument's tick size.
func (n *Normalizer) synthesizeSpread(leg *models.OptionLeg) {
	if leg == nil {
		return
	}

	if leg.BidPrice == 0 && leg.AskPrice == 0 && leg.LastPrice > 0 {
		factor := n.spreadFactor(leg.Volume, leg.OpenInterest)
		half := leg.LastPrice * factor / 2
		leg.BidPrice = n.roundToTick(leg.LastPrice - half)
		leg.AskPrice = n.roundToTick(leg.LastPrice + half)
		if leg.BidPrice < 0 {
			leg.BidPrice = 0
		}
	}

	if leg.AskPrice >= leg.BidPrice {
		leg.Spread = leg.AskPrice - leg.BidPrice
	}
	if leg.LastPrice > 0 {
		leg.SpreadPercent = 100 * leg.Spread / leg.LastPrice
	}
}

func (n *Normalizer) spreadFactor(volume, oi int64) float64 {
	for _, tier := range n.cfg.SpreadTiers {
		if volume >= tier.MinVolume && oi >= tier.MinOI {
			return tier.Factor
		}
	}
	if len(n.cfg.SpreadTiers) > 0 {
		return n.cfg.SpreadTiers[len(n.cfg.SpreadTiers)-1].Factor
	}
	return 0
}

func (n *Normalizer) roundToTick(price float64) float64 {
	if n.tickSize <= 0 {
		return price
	}
	return math.Round(price/n.tickSize) * n.tickSize
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
