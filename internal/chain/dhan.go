package chain

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	apperrors "mcx-signals/internal/errors"
	"mcx-signals/internal/models"
)

// DhanAdapter parses the Dhan option-chain payload: a per-expiry map of
// strike string keys to {ce, pe} leg objects under data.oc, with the
// underlying's last price alongside and the expiry list at the top level.
type DhanAdapter struct{}

const dhanDateFormat = "2006-01-02"

func (a *DhanAdapter) Source() string {
	return "dhan"
}

func (a *DhanAdapter) Parse(payload []byte) (*RawChain, *apperrors.ParseReport, error) {
	report := &apperrors.ParseReport{Source: a.Source()}

	var root map[string]interface{}
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, report, apperrors.NewSourceError(a.Source(), "decoding payload", err)
	}

	data := subMap(root, "data")
	if data == nil {
		return nil, report, apperrors.NewSourceError(a.Source(), "payload has no data object", apperrors.ErrSourceUnavailable)
	}

	raw := &RawChain{
		SpotPrice: numField(data, "last_price", report, 0, ""),
	}

	expiry := parseDhanDate(strField(root, "expiry"))
	for _, item := range listField(root, "expiries") {
		if s, ok := item.(string); ok {
			if t := parseDhanDate(s); !t.IsZero() {
				raw.Expiries = append(raw.Expiries, t)
			}
		}
	}
	if expiry.IsZero() && len(raw.Expiries) > 0 {
		expiry = raw.Expiries[0]
	}

	oc := subMap(data, "oc")
	strikes := make([]string, 0, len(oc))
	for key := range oc {
		strikes = append(strikes, key)
	}
	sort.Strings(strikes)

	for _, key := range strikes {
		strike, err := strconv.ParseFloat(key, 64)
		if err != nil || strike <= 0 {
			report.Add(0, "", "strike", "unparseable strike key "+key)
			continue
		}
		row := subMap(oc, key)
		if ce := subMap(row, "ce"); ce != nil {
			raw.Legs = append(raw.Legs, a.parseLeg(ce, models.OptionCall, strike, expiry, report))
		}
		if pe := subMap(row, "pe"); pe != nil {
			raw.Legs = append(raw.Legs, a.parseLeg(pe, models.OptionPut, strike, expiry, report))
		}
	}

	return raw, report, nil
}

func (a *DhanAdapter) parseLeg(m map[string]interface{}, typ models.OptionType, strike float64, expiry time.Time, report *apperrors.ParseReport) models.OptionLeg {
	leg := models.OptionLeg{
		Type:          typ,
		Strike:        strike,
		Expiry:        expiry,
		TradingSymbol: strField(m, "symbol"),
		InstrumentID:  strField(m, "security_id"),
		LastPrice:     numField(m, "last_price", report, strike, string(typ)),
		OpenInterest:  intField(m, "oi", report, strike, string(typ)),
		Volume:        intField(m, "volume", report, strike, string(typ)),
		BidPrice:      numField(m, "top_bid_price", report, strike, string(typ)),
		AskPrice:      numField(m, "top_ask_price", report, strike, string(typ)),
		IV:            numField(m, "implied_volatility", report, strike, string(typ)),
	}

	if greeks := subMap(m, "greeks"); greeks != nil {
		if v, ok := toFloat(greeks["delta"]); ok {
			leg.Delta = &v
		}
		if v, ok := toFloat(greeks["theta"]); ok {
			leg.Theta = &v
		}
	}

	return leg
}

func parseDhanDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dhanDateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func listField(m map[string]interface{}, key string) []interface{} {
	if raw, ok := m[key]; ok {
		if list, ok := raw.([]interface{}); ok {
			return list
		}
	}
	return nil
}
