package payoff

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/models"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(zerolog.Nop(), DefaultCurveOptions())
}

func TestAnalyzer_EmptyBook(t *testing.T) {
	_, err := newTestAnalyzer().Analyze(Book{})
	assert.ErrorIs(t, err, apperrors.ErrEmptyPortfolio)
}

func TestAnalyzer_UnderlyingOnlyBookIsEmpty(t *testing.T) {
	b, err := NewBook(nil, []models.UnderlyingLeg{stock(1, buy, 100)})
	require.NoError(t, err)

	_, err = newTestAnalyzer().Analyze(b)
	assert.ErrorIs(t, err, apperrors.ErrEmptyPortfolio)
}

func TestAnalyzer_LongCallShortPuts(t *testing.T) {
	b, err := NewBook([]models.OptionLeg{call(95, 1, buy, 6.25), put(105, 2, sell, 7.75)}, nil)
	require.NoError(t, err)

	a, err := newTestAnalyzer().Analyze(b)
	require.NoError(t, err)

	assert.Equal(t, Custom, a.Strategy)
	require.Len(t, a.BreakEvens, 1)
	assert.InDelta(t, 98.5833333, a.BreakEvens[0], 1e-6)
	assert.Equal(t, Exposure{Value: 1, Limited: true}, a.Risk.DeltaUpside)
	assert.Equal(t, Exposure{Value: -2, Limited: true}, a.Risk.DeltaDownside)
	assert.Equal(t, Exposure{Value: -1, Limited: false}, a.Risk.Vega)
	assert.Len(t, a.Positions, 2)
	assert.Equal(t, AssetMix{Calls: 1, Puts: 2}, a.Mix)
	assert.Nil(t, a.Curve)
}

func TestAnalyzer_HedgedBook(t *testing.T) {
	b, err := NewBook(
		[]models.OptionLeg{call(95, 1, buy, 6.25), put(105, 2, sell, 7.75)},
		[]models.UnderlyingLeg{stock(2, sell, 98)},
	)
	require.NoError(t, err)

	a, err := newTestAnalyzer().Analyze(b)
	require.NoError(t, err)

	assert.Equal(t, CustomHedged, a.Strategy)
	// slopes [0, 1, -1], P&L -4.75 and 5.25 on the ladder
	assert.InDeltaSlice(t, []float64{99.75, 110.25}, a.BreakEvens, 1e-9)
	assert.Equal(t, -1, a.Risk.DeltaUpside.Value)
	assert.False(t, a.Risk.DeltaUpside.Limited)
}

func TestAnalyzer_AnalyzeWithCurve(t *testing.T) {
	b, err := NewBook([]models.OptionLeg{call(100, 1, buy, 5), put(100, 1, buy, 5)}, nil)
	require.NoError(t, err)

	an := NewAnalyzer(zerolog.Nop(), CurveOptions{Points: 50, RangeMultiplier: 3, SingleStrikeDivisor: 1.5})
	a, err := an.AnalyzeWithCurve(b)
	require.NoError(t, err)

	assert.Equal(t, Straddle, a.Strategy)
	assert.Equal(t, []float64{90, 110}, a.BreakEvens)
	require.NotNil(t, a.Curve)
	assert.Len(t, a.Curve.Prices, 50)
}

func TestAnalyzer_DoesNotMutateBook(t *testing.T) {
	b, err := NewBook([]models.OptionLeg{call(100, 1, buy, 5), call(110, 2, sell, 2)}, nil)
	require.NoError(t, err)
	before := b.Options()

	_, err = newTestAnalyzer().Analyze(b)
	require.NoError(t, err)
	assert.Equal(t, before, b.Options())
}
