package store

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"mcx-signals/internal/models"
)

// Broker instrument masters publish expiries in a couple of date layouts.
var expiryLayouts = []string{
	"2006-01-02",
	"02-Jan-2006",
}

// ParseInstrumentMaster decodes a broker instrument-master CSV dump and
// resolves expiry text into timestamps. Rows with unparseable expiries keep
// a zero Expiry rather than failing the whole dump.
func ParseInstrumentMaster(r io.Reader) ([]models.Instrument, error) {
	var instruments []models.Instrument
	if err := gocsv.Unmarshal(r, &instruments); err != nil {
		return nil, fmt.Errorf("failed to parse instrument master: %w", err)
	}

	for i := range instruments {
		instruments[i].Expiry = parseExpiry(instruments[i].ExpiryText)
	}

	return instruments, nil
}

// FilterBySymbol keeps only the rows for one underlying on one exchange.
func FilterBySymbol(instruments []models.Instrument, symbol string, exchange models.Exchange) []models.Instrument {
	var out []models.Instrument
	for _, inst := range instruments {
		if strings.EqualFold(inst.Symbol, symbol) && inst.Exchange == exchange {
			out = append(out, inst)
		}
	}
	return out
}

func parseExpiry(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	return time.Time{}
}
