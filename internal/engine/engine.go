// Package engine runs the full signal computation: candle aggregation,
// per-timeframe scoring, the overall verdict, the futures setup, chain
// normalization with synthetic fallback, and options advice, assembled into
// one response record.
package engine

import (
	"time"

	"github.com/rs/zerolog"

	"mcx-signals/internal/analysis/aggregate"
	"mcx-signals/internal/analysis/scoring"
	"mcx-signals/internal/analysis/setup"
	"mcx-signals/internal/analytics"
	"mcx-signals/internal/chain"
	"mcx-signals/internal/config"
	apperrors "mcx-signals/internal/errors"
	"mcx-signals/internal/logging"
	"mcx-signals/internal/models"
)

// highIVRank is the IV rank above which the advisor prefers selling premium.
const highIVRank = 50

// ChainPayload is one source's raw option-chain response. Sources are tried
// in order; the first that normalizes into a usable ladder wins.
type ChainPayload struct {
	Source  string
	Payload []byte
}

// Input carries everything one invocation consumes. All fetching happens
// outside the engine; per-source failures arrive as absent entries, never as
// errors. An empty candle series drops its timeframe.
type Input struct {
	Symbol        string
	Candles       map[models.Timeframe][]models.Candle
	Quote         *models.Quote
	ChainPayloads []ChainPayload
	IVHistory     []float64
	Expiry        time.Time
}

// Engine wires the analysis components together. Each invocation is isolated
// and deterministic given its inputs, except for the documented live-anchor
// override.
type Engine struct {
	cfg        *config.Config
	scorer     *scoring.Scorer
	verdict    *scoring.Verdict
	setups     *setup.Generator
	normalizer *chain.Normalizer
	synthetic  *analytics.SyntheticBuilder
	analyzer   *analytics.Analyzer
	advisor    *analytics.Advisor
	now        func() time.Time
	log        zerolog.Logger
}

// New creates an engine from configuration. A nil now falls back to time.Now.
func New(cfg *config.Config, now func() time.Time, log zerolog.Logger) *Engine {
	if now == nil {
		now = time.Now
	}

	weights := make(map[models.Timeframe]float64, len(cfg.Analysis.TimeframeWeights))
	for tf, w := range cfg.Analysis.TimeframeWeights {
		weights[models.Timeframe(tf)] = w
	}

	return &Engine{
		cfg:    cfg,
		scorer: scoring.NewScorer(cfg.Scoring),
		verdict: scoring.NewVerdict(scoring.ScorerConfig{
			BiasThreshold:    cfg.Scoring.BiasThreshold,
			ConfidenceHigh:   cfg.Scoring.ConfidenceHigh,
			ConfidenceMedium: cfg.Scoring.ConfidenceMedium,
			LiveNudgeFactor:  cfg.Scoring.LiveNudgeFactor,
			LiveNudgeCap:     cfg.Scoring.LiveNudgeCap,
		}, weights),
		setups:     setup.NewGenerator(cfg.Setup),
		normalizer: chain.NewNormalizer(cfg.Chain, cfg.Symbol.TickSize, chain.DefaultRegistry(), now, log),
		synthetic:  analytics.NewSyntheticBuilder(cfg.Synthetic),
		analyzer:   analytics.NewAnalyzer(cfg.Synthetic.PlaceholderIV),
		advisor:    analytics.NewAdvisor(highIVRank),
		now:        now,
		log:        log,
	}
}

// Analyze runs one full invocation. It fails only when no timeframe has any
// candles; every other degradation is absorbed locally.
func (e *Engine) Analyze(input Input) (*models.Snapshot, error) {
	quote := input.Quote
	if quote != nil && !e.premiumSane(input, quote) {
		symLog := logging.WithSymbol(e.log, input.Symbol)
		symLog.Warn().
			Float64("ltp", quote.LTP).
			Msg("live anchor outside premium sanity bounds, ignored")
		quote = nil
	}

	signals := e.scoreTimeframes(input, quote)
	if len(signals) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInsufficientData, "no usable candles for any timeframe")
	}

	var livePct *float64
	if quote != nil {
		pct := quote.ChangePercent
		livePct = &pct
	}
	overall := e.verdict.Aggregate(signals, livePct)
	logging.LogVerdict(e.log, input.Symbol, string(overall.Direction), overall.Score, string(overall.Confidence))

	snapshot := &models.Snapshot{
		Symbol:       input.Symbol,
		Timestamp:    e.now(),
		CurrentPrice: currentPrice(quote, signals),
		Overall:      overall,
		Timeframes:   signals,
		Setups:       make(map[models.Timeframe]*models.FuturesSetup),
	}

	daily := findSignal(signals, models.Timeframe1Day)
	if daily == nil {
		// Without a daily series the longest available timeframe anchors the
		// trade plan.
		daily = &signals[len(signals)-1]
	}
	snapshot.Setups[daily.Timeframe] = e.setups.Generate(*daily, overall.Direction)

	analysis := e.analyzeChain(input, snapshot.CurrentPrice)
	snapshot.ChainAnalysis = analysis

	condition := analytics.ConditionFrom(daily.Indicators, e.cfg.Scoring.ADXTrendFloor)
	snapshot.Recommendations = e.advisor.Advise(overall, snapshot.Setups[daily.Timeframe], analysis, condition)

	snapshot.Summary = Summarize(snapshot, condition)
	return snapshot, nil
}

// scoreTimeframes scores every configured timeframe that has candles,
// deriving missing mid timeframes from the base series where the fold factor
// allows. Empty series drop their timeframe instead of stubbing it.
func (e *Engine) scoreTimeframes(input Input, quote *models.Quote) []models.TimeframeSignal {
	signals := make([]models.TimeframeSignal, 0, len(e.cfg.Analysis.Timeframes))

	for _, name := range e.cfg.Analysis.Timeframes {
		tf := models.Timeframe(name)
		candles := input.Candles[tf]

		if len(candles) == 0 && tf == models.Timeframe45Min {
			if base := input.Candles[models.Timeframe15Min]; len(base) > 0 {
				folded, err := aggregate.Fold(base, e.cfg.Analysis.FoldFactor)
				if err == nil {
					candles = folded
				}
			}
		}
		if len(candles) == 0 {
			tfLog := logging.WithTimeframe(e.log, name)
			tfLog.Debug().Msg("timeframe dropped, no candles")
			continue
		}

		candles = applyLiveAnchor(candles, quote)
		signals = append(signals, e.scorer.ScoreTimeframe(tf, candles))
	}

	return signals
}

// analyzeChain tries each live source in order and falls back to the
// deterministic synthetic ladder when none yields usable rows. Source
// failures are logged, never surfaced.
func (e *Engine) analyzeChain(input Input, spot float64) *models.OptionChainAnalysis {
	for i, payload := range input.ChainPayloads {
		c, report, err := e.normalizer.Normalize(payload.Source, input.Symbol, payload.Payload)
		if err != nil {
			fallback := "synthetic"
			if i+1 < len(input.ChainPayloads) {
				fallback = input.ChainPayloads[i+1].Source
			}
			logging.LogSourceFallback(e.log, payload.Source, fallback, err)
			continue
		}
		issues := 0
		if report != nil {
			issues = len(report.Issues)
		}
		logging.LogChain(e.log, payload.Source, len(c.Rows), issues, string(c.Provenance))
		return e.analyzer.Analyze(c, input.IVHistory)
	}

	if spot <= 0 {
		return nil
	}
	synthetic := e.synthetic.Build(input.Symbol, spot, input.Expiry)
	logging.LogChain(e.log, "synthetic", len(synthetic.Rows), 0, string(synthetic.Provenance))
	return e.analyzer.Analyze(synthetic, input.IVHistory)
}

// applyLiveAnchor returns a copy of the series with the last close replaced
// by the live trade price. The input series is never mutated.
func applyLiveAnchor(candles []models.Candle, quote *models.Quote) []models.Candle {
	if quote == nil || quote.LTP <= 0 {
		return candles
	}

	out := make([]models.Candle, len(candles))
	copy(out, candles)

	last := &out[len(out)-1]
	last.Close = quote.LTP
	if quote.LTP > last.High {
		last.High = quote.LTP
	}
	if quote.LTP < last.Low {
		last.Low = quote.LTP
	}
	return out
}

func currentPrice(quote *models.Quote, signals []models.TimeframeSignal) float64 {
	if quote != nil && quote.LTP > 0 {
		return quote.LTP
	}
	return signals[len(signals)-1].LastPrice
}

// premiumSane checks the implied premium between the live anchor and the
// most recent candle close against the configured sanity band. The bounds
// are empirically tuned; an anchor outside them is treated as bad data and
// dropped rather than nudging the verdict.
func (e *Engine) premiumSane(input Input, quote *models.Quote) bool {
	if quote.LTP <= 0 {
		return false
	}

	var refClose float64
	for _, tf := range models.AllTimeframes() {
		if candles := input.Candles[tf]; len(candles) > 0 {
			refClose = candles[len(candles)-1].Close
		}
	}
	if refClose <= 0 {
		return true
	}

	premium := 100 * (quote.LTP - refClose) / refClose
	return premium >= e.cfg.Premium.MinPercent && premium <= e.cfg.Premium.MaxPercent
}

func findSignal(signals []models.TimeframeSignal, tf models.Timeframe) *models.TimeframeSignal {
	for i := range signals {
		if signals[i].Timeframe == tf {
			return &signals[i]
		}
	}
	return nil
}
