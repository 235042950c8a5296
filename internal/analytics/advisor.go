package analytics

import (
	"fmt"
	"math"

	"mcx-signals/internal/models"
)

// Advisor turns the overall verdict, the futures plan and the chain
// analytics into ranked option strategy suggestions. Every recommendation
// carries a rationale naming the values that justified it; the operator has
// no other way to audit a suggestion.
type Advisor struct {
	// highIVRank is the rank above which premium selling beats buying.
	highIVRank float64
}

// NewAdvisor creates an advisor.
func NewAdvisor(highIVRank float64) *Advisor {
	return &Advisor{highIVRank: highIVRank}
}

// ConditionFrom classifies the regime from the daily indicators: a strong
// ADX reads as trending, anything else as ranging.
func ConditionFrom(set models.IndicatorSet, adxFloor float64) models.MarketCondition {
	if set.ADX != nil && *set.ADX >= adxFloor {
		return models.MarketTrending
	}
	return models.MarketRanging
}

// Advise emits ranked recommendations. Directional long options lead when
// confidence is there and IV is cheap; premium selling takes over when IV
// rank is high in a ranging market. No edge means no recommendations.
func (a *Advisor) Advise(
	overall models.OverallSignal,
	setup *models.FuturesSetup,
	analysis *models.OptionChainAnalysis,
	condition models.MarketCondition,
) []models.OptionsRecommendation {
	if analysis == nil || len(analysis.Rows) == 0 {
		return nil
	}

	var recs []models.OptionsRecommendation

	expectedMove := 0.0
	spot := 0.0
	if setup != nil {
		spot = setup.Entry
		expectedMove = math.Abs(setup.Target1 - setup.Entry)
	}

	ivIsHigh := analysis.IVRank != nil && *analysis.IVRank >= a.highIVRank

	if overall.Direction != models.BiasHold && overall.Confidence != models.ConfidenceLow && !ivIsHigh {
		recs = append(recs, a.directionalLong(overall, analysis, spot, expectedMove))
	}

	if ivIsHigh && condition == models.MarketRanging {
		recs = append(recs, a.premiumSelling(analysis)...)
	}

	return recs
}

func (a *Advisor) directionalLong(overall models.OverallSignal, analysis *models.OptionChainAnalysis, spot, expectedMove float64) models.OptionsRecommendation {
	typ := models.OptionCall
	if overall.Direction == models.BiasSell {
		typ = models.OptionPut
	}

	strike := nearestStrike(analysis.Rows, spot)

	risk := models.RiskHigh
	if overall.Confidence == models.ConfidenceHigh {
		risk = models.RiskMedium
	}

	ivNote := "IV data unavailable"
	if analysis.IVRank != nil {
		ivNote = fmt.Sprintf("IV rank %.0f favors buying premium", *analysis.IVRank)
	}

	return models.OptionsRecommendation{
		Action:       models.BiasBuy,
		Type:         typ,
		Strike:       strike,
		ExpectedMove: expectedMove,
		Risk:         risk,
		Rationale: fmt.Sprintf("%s verdict at score %.0f with %s confidence, PCR %.2f, max pain %.0f; %s; buy ATM %s %.0f",
			overall.Direction, overall.Score, overall.Confidence, analysis.PCR, analysis.MaxPainStrike, ivNote, typ, strike),
	}
}

func (a *Advisor) premiumSelling(analysis *models.OptionChainAnalysis) []models.OptionsRecommendation {
	rank := *analysis.IVRank
	return []models.OptionsRecommendation{
		{
			Action: models.BiasSell,
			Type:   models.OptionCall,
			Strike: analysis.CallResistance,
			Risk:   models.RiskHigh,
			Rationale: fmt.Sprintf("IV rank %.0f in a ranging market favors selling premium; call resistance at %.0f holds the most call OI",
				rank, analysis.CallResistance),
		},
		{
			Action: models.BiasSell,
			Type:   models.OptionPut,
			Strike: analysis.PutSupport,
			Risk:   models.RiskHigh,
			Rationale: fmt.Sprintf("IV rank %.0f in a ranging market favors selling premium; put support at %.0f holds the most put OI",
				rank, analysis.PutSupport),
		},
	}
}

func nearestStrike(rows []models.OptionChainRow, spot float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	best := rows[0].Strike
	bestDist := math.Inf(1)
	for _, row := range rows {
		if d := math.Abs(row.Strike - spot); d < bestDist {
			bestDist = d
			best = row.Strike
		}
	}
	return best
}
