package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatIndianCurrency(t *testing.T) {
	assert.Equal(t, "₹1,25,000.50", FormatIndianCurrency(125000.50))
	assert.Equal(t, "₹999.00", FormatIndianCurrency(999))
	assert.Equal(t, "-₹12,34,567.89", FormatIndianCurrency(-1234567.89))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+1.25%", FormatPercent(1.25))
	assert.Equal(t, "-0.50%", FormatPercent(-0.5))
	assert.Equal(t, "0.00%", FormatPercent(0))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "1,250", FormatQuantity(1250))
	assert.Equal(t, "12,50,000", FormatQuantity(1250000))
	assert.Equal(t, "-1,250", FormatQuantity(-1250))
}

func TestFormatOI(t *testing.T) {
	assert.Equal(t, "12.5L", FormatOI(1250000))
	assert.Equal(t, "45,000", FormatOI(45000))
}
