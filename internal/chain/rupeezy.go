package chain

import (
	"encoding/json"
	"time"

	apperrors "mcx-signals/internal/errors"
	"mcx-signals/internal/models"
)

// RupeezyAdapter parses the Rupeezy option-chain payload: a flat array of leg
// records carrying per-leg epoch-second expiries, with the spot price and
// expiry list at the top level. Depth, when present, is a buy/sell array of
// price levels; only the best level is used.
type RupeezyAdapter struct{}

func (a *RupeezyAdapter) Source() string {
	return "rupeezy"
}

func (a *RupeezyAdapter) Parse(payload []byte) (*RawChain, *apperrors.ParseReport, error) {
	report := &apperrors.ParseReport{Source: a.Source()}

	var root map[string]interface{}
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, report, apperrors.NewSourceError(a.Source(), "decoding payload", err)
	}

	raw := &RawChain{
		SpotPrice: numField(root, "spot_price", report, 0, ""),
	}

	for _, item := range listField(root, "expiries") {
		if epoch, ok := toFloat(item); ok && epoch > 0 {
			raw.Expiries = append(raw.Expiries, time.Unix(int64(epoch), 0).UTC())
		}
	}

	for _, item := range listField(root, "options") {
		m, ok := item.(map[string]interface{})
		if !ok {
			report.Add(0, "", "options", "record is not an object")
			continue
		}

		strike := numField(m, "strike_price", report, 0, "")
		if strike <= 0 {
			report.Add(strike, "", "strike_price", "missing or non-positive")
			continue
		}

		typ := models.OptionType(strField(m, "option_type"))
		if typ != models.OptionCall && typ != models.OptionPut {
			report.Add(strike, string(typ), "option_type", "unknown option type")
			continue
		}

		leg := models.OptionLeg{
			Type:          typ,
			Strike:        strike,
			TradingSymbol: strField(m, "symbol"),
			InstrumentID:  strField(m, "token"),
			LotSize:       int(intField(m, "lot_size", report, strike, string(typ))),
			LastPrice:     numField(m, "ltp", report, strike, string(typ)),
			OpenInterest:  intField(m, "open_interest", report, strike, string(typ)),
			Volume:        intField(m, "traded_volume", report, strike, string(typ)),
			IV:            numField(m, "iv", report, strike, string(typ)),
		}

		if epoch := numField(m, "expiry", report, strike, string(typ)); epoch > 0 {
			leg.Expiry = time.Unix(int64(epoch), 0).UTC()
		}

		if depth := subMap(m, "depth"); depth != nil {
			leg.BidPrice = bestDepthPrice(depth, "buy", report, strike, string(typ))
			leg.AskPrice = bestDepthPrice(depth, "sell", report, strike, string(typ))
		}

		raw.Legs = append(raw.Legs, leg)
	}

	return raw, report, nil
}

func bestDepthPrice(depth map[string]interface{}, side string, report *apperrors.ParseReport, strike float64, leg string) float64 {
	levels := listField(depth, side)
	if len(levels) == 0 {
		return 0
	}
	best, ok := levels[0].(map[string]interface{})
	if !ok {
		report.Add(strike, leg, "depth."+side, "level is not an object")
		return 0
	}
	return numField(best, "price", report, strike, leg)
}
