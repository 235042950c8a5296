package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mcx-signals/internal/errors"
	"mcx-signals/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildInputMalformedCandlesIsDataError(t *testing.T) {
	path := writeFile(t, "candles.json", "not json")

	_, err := buildInput("NATURALGAS", path, "", nil, "", "")
	require.Error(t, err)

	var dataErr *apperrors.DataError
	require.True(t, apperrors.As(err, &dataErr))
	assert.Equal(t, "candles", dataErr.DataType)
	assert.Equal(t, "NATURALGAS", dataErr.Symbol)
}

func TestBuildInputMalformedQuoteIsDataError(t *testing.T) {
	candles := writeFile(t, "candles.json", `{"day":[]}`)
	quote := writeFile(t, "quote.json", "{")

	_, err := buildInput("NATURALGAS", candles, quote, nil, "", "")
	require.Error(t, err)

	var dataErr *apperrors.DataError
	require.True(t, apperrors.As(err, &dataErr))
	assert.Equal(t, "quote", dataErr.DataType)
}

func TestBuildInputSkipsUnreadableChainFile(t *testing.T) {
	candles := writeFile(t, "candles.json", `{"day":[]}`)

	input, err := buildInput("NATURALGAS", candles, "", []string{"dhan:/does/not/exist.json"}, "", "")
	require.NoError(t, err)
	assert.Empty(t, input.ChainPayloads)
}

func TestBuildInputRejectsBadChainFlag(t *testing.T) {
	candles := writeFile(t, "candles.json", `{"day":[]}`)

	_, err := buildInput("NATURALGAS", candles, "", []string{"no-separator"}, "", "")
	assert.Error(t, err)
}

func TestLegCellsFormatsOpenInterestInLakhs(t *testing.T) {
	leg := &models.OptionLeg{OpenInterest: 250000, LastPrice: 9.55, IV: 31.2}
	oi, ltp, iv := legCells(leg)
	assert.Equal(t, "2.5L", oi)
	assert.Equal(t, "9.55", ltp)
	assert.Equal(t, "31.2", iv)

	oi, _, _ = legCells(nil)
	assert.Equal(t, "-", oi)
}

func TestOutputColoring(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{writer: &buf, colorEnabled: true}

	out.Error("bad input %d", 7)
	out.Info("cache note")
	text := buf.String()
	assert.Contains(t, text, ColorRed+"bad input 7"+ColorReset)
	assert.Contains(t, text, ColorCyan+"cache note"+ColorReset)

	buf.Reset()
	out = &Output{writer: &buf}
	out.Error("plain")
	assert.Equal(t, "plain\n", buf.String())
}
