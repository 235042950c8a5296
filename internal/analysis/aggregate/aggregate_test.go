package aggregate

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mcx-signals/internal/errors"
	"mcx-signals/internal/models"
)

func seriesOf(n int) []models.Candle {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i := range candles {
		price := 100 + float64(i)
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * 15 * time.Minute),
			Open:      price,
			High:      price + 2,
			Low:       price - 2,
			Close:     price + 1,
			Volume:    int64(1000 + i),
		}
	}
	return candles
}

func TestFoldGroups(t *testing.T) {
	candles := seriesOf(9)
	folded, err := Fold(candles, 3)
	require.NoError(t, err)
	require.Len(t, folded, 3)

	first := folded[0]
	assert.Equal(t, candles[0].Timestamp, first.Timestamp)
	assert.InDelta(t, candles[0].Open, first.Open, 1e-9)
	assert.InDelta(t, candles[2].Close, first.Close, 1e-9)
	assert.InDelta(t, candles[2].High, first.High, 1e-9)
	assert.InDelta(t, candles[0].Low, first.Low, 1e-9)
	assert.Equal(t, candles[0].Volume+candles[1].Volume+candles[2].Volume, first.Volume)
}

func TestFoldPartialTrailingGroup(t *testing.T) {
	folded, err := Fold(seriesOf(10), 3)
	require.NoError(t, err)
	// Three full groups and a one-candle remainder.
	require.Len(t, folded, 4)
	assert.Equal(t, int64(1009), folded[3].Volume)
}

func TestFoldErrors(t *testing.T) {
	_, err := Fold(nil, 3)
	assert.True(t, apperrors.Is(err, apperrors.ErrInsufficientData))

	_, err = Fold(seriesOf(5), 0)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidPeriod))
}

func TestFoldFactorOneCopies(t *testing.T) {
	candles := seriesOf(4)
	folded, err := Fold(candles, 1)
	require.NoError(t, err)
	assert.Equal(t, candles, folded)

	// The output is a copy, not an alias.
	folded[0].Close = -1
	assert.NotEqual(t, folded[0].Close, candles[0].Close)
}

// Property: folding conserves total volume for any series and fold factor.
func TestProperty_FoldConservesVolume(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Sum of output volumes equals sum of input volumes", prop.ForAll(
		func(volumes []int64, factor int) bool {
			if len(volumes) == 0 {
				return true
			}
			base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
			candles := make([]models.Candle, len(volumes))
			var inputTotal int64
			for i, v := range volumes {
				candles[i] = models.Candle{
					Timestamp: base.Add(time.Duration(i) * time.Minute),
					Open:      100, High: 101, Low: 99, Close: 100,
					Volume: v,
				}
				inputTotal += v
			}

			folded, err := Fold(candles, factor)
			if err != nil {
				return false
			}
			var outputTotal int64
			for _, c := range folded {
				outputTotal += c.Volume
			}
			return outputTotal == inputTotal
		},
		gen.SliceOfN(50, gen.Int64Range(0, 1000000)),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}
