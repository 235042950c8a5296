// Package analytics derives option-chain metrics and strategy suggestions
// from a canonical ladder.
package analytics

import (
	"math"

	"mcx-signals/internal/models"
)

// Analyzer computes chain analytics. placeholderIV stands in for ATM IV when
// the source carries no implied volatility at all.
type Analyzer struct {
	placeholderIV float64
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(placeholderIV float64) *Analyzer {
	return &Analyzer{placeholderIV: placeholderIV}
}

// Analyze computes the full analytics record from a canonical chain.
// ivHistory is an optional series of past ATM IV observations used for rank
// and percentile; rank fields stay nil without it. The chain's provenance is
// carried through unchanged so synthetic data is never reported as live.
func (a *Analyzer) Analyze(chain *models.OptionChain, ivHistory []float64) *models.OptionChainAnalysis {
	analysis := &models.OptionChainAnalysis{
		Rows:       chain.Rows,
		Provenance: chain.Provenance,
		Source:     chain.Source,
	}

	analysis.PCR = putCallRatio(chain.Rows)
	analysis.MaxPainStrike = maxPain(chain.Rows)
	analysis.CallResistance, analysis.PutSupport = oiExtremes(chain.Rows)
	analysis.ATMIV = a.atmIV(chain.Rows, chain.SpotPrice)

	if len(ivHistory) > 0 {
		rank, percentile := ivRank(analysis.ATMIV, ivHistory)
		analysis.IVRank = &rank
		analysis.IVPercentile = &percentile
	}

	return analysis
}

// putCallRatio is total put OI over total call OI, zero when there is no
// call OI to divide by.
func putCallRatio(rows []models.OptionChainRow) float64 {
	var callOI, putOI int64
	for _, row := range rows {
		if row.Call != nil {
			callOI += row.Call.OpenInterest
		}
		if row.Put != nil {
			putOI += row.Put.OpenInterest
		}
	}
	if callOI == 0 {
		return 0
	}
	return float64(putOI) / float64(callOI)
}

// maxPain finds the strike minimizing total option-writer loss: for each
// candidate K, sum max(0,K-S)*callOI(S) + max(0,S-K)*putOI(S) over all
// strikes S. A quadratic scan, fine on a ladder bounded at a few dozen rows.
func maxPain(rows []models.OptionChainRow) float64 {
	if len(rows) == 0 {
		return 0
	}

	bestStrike := rows[0].Strike
	bestLoss := math.Inf(1)

	for _, candidate := range rows {
		k := candidate.Strike
		var loss float64
		for _, row := range rows {
			s := row.Strike
			if row.Call != nil && k > s {
				loss += (k - s) * float64(row.Call.OpenInterest)
			}
			if row.Put != nil && s > k {
				loss += (s - k) * float64(row.Put.OpenInterest)
			}
		}
		if loss < bestLoss {
			bestLoss = loss
			bestStrike = k
		}
	}

	return bestStrike
}

// oiExtremes returns the call-resistance strike (max call OI) and the
// put-support strike (max put OI).
func oiExtremes(rows []models.OptionChainRow) (callResistance, putSupport float64) {
	var maxCallOI, maxPutOI int64 = -1, -1
	for _, row := range rows {
		if row.Call != nil && row.Call.OpenInterest > maxCallOI {
			maxCallOI = row.Call.OpenInterest
			callResistance = row.Strike
		}
		if row.Put != nil && row.Put.OpenInterest > maxPutOI {
			maxPutOI = row.Put.OpenInterest
			putSupport = row.Strike
		}
	}
	return callResistance, putSupport
}

// atmIV averages the IV of the legs at the strike nearest spot, falling back
// to the placeholder when the source supplied none.
func (a *Analyzer) atmIV(rows []models.OptionChainRow, spot float64) float64 {
	var atm *models.OptionChainRow
	best := math.Inf(1)
	for i := range rows {
		if d := math.Abs(rows[i].Strike - spot); d < best {
			best = d
			atm = &rows[i]
		}
	}
	if atm == nil {
		return a.placeholderIV
	}

	var total float64
	var count int
	if atm.Call != nil && atm.Call.IV > 0 {
		total += atm.Call.IV
		count++
	}
	if atm.Put != nil && atm.Put.IV > 0 {
		total += atm.Put.IV
		count++
	}
	if count == 0 {
		return a.placeholderIV
	}
	return total / float64(count)
}

// ivRank positions the current IV within the supplied history: rank is the
// distance between the historical min and max, percentile the share of
// observations at or below the current value. Both in [0, 100].
func ivRank(current float64, history []float64) (rank, percentile float64) {
	minIV, maxIV := history[0], history[0]
	below := 0
	for _, v := range history {
		if v < minIV {
			minIV = v
		}
		if v > maxIV {
			maxIV = v
		}
		if v <= current {
			below++
		}
	}

	if maxIV > minIV {
		rank = 100 * (current - minIV) / (maxIV - minIV)
		rank = math.Max(0, math.Min(100, rank))
	}
	percentile = 100 * float64(below) / float64(len(history))
	return rank, percentile
}
