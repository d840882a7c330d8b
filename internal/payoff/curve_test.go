package payoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"option-payoff/internal/models"
)

func TestPriceRange(t *testing.T) {
	opts := DefaultCurveOptions()

	single := &Profile{Strikes: []float64{150}, PnL: []float64{-5}}
	lo, hi := single.PriceRange(opts)
	assert.InDelta(t, 50, lo, 1e-9)
	assert.InDelta(t, 250, hi, 1e-9)

	ladder := &Profile{Strikes: []float64{95, 105}, PnL: []float64{-10.75, 19.25}}
	lo, hi = ladder.PriceRange(opts)
	assert.InDelta(t, 65, lo, 1e-9)
	assert.InDelta(t, 135, hi, 1e-9)
}

func TestPnLRange(t *testing.T) {
	p := &Profile{Strikes: []float64{95, 105}, PnL: []float64{-10.75, 19.25}}
	lo, hi := p.PnLRange()
	assert.InDelta(t, 36, hi, 1e-9)
	assert.InDelta(t, -36, lo, 1e-9)

	single := &Profile{Strikes: []float64{100}, PnL: []float64{-5}}
	_, hi = single.PnLRange()
	assert.InDelta(t, 15, hi, 1e-9)

	flat := &Profile{Strikes: []float64{100}, PnL: []float64{0}}
	_, hi = flat.PnLRange()
	assert.Equal(t, 1.0, hi)
}

func TestSampleCurve(t *testing.T) {
	p, err := BuildProfile([]models.OptionLeg{call(100, 1, buy, 5), put(100, 1, buy, 5)}, nil)
	require.NoError(t, err)

	c := SampleCurve(p, CurveOptions{Points: 5, RangeMultiplier: 3, SingleStrikeDivisor: 2})
	assert.Equal(t, []float64{50, 75, 100, 125, 150}, c.Prices)
	assert.InDeltaSlice(t, []float64{40, 15, -10, 15, 40}, c.PnL, 1e-9)
	assert.Equal(t, 50.0, c.XMin)
	assert.Equal(t, 150.0, c.XMax)
}

func TestSampleCurve_ClampsPointCount(t *testing.T) {
	p, err := BuildProfile([]models.OptionLeg{call(100, 1, buy, 5)}, nil)
	require.NoError(t, err)

	c := SampleCurve(p, CurveOptions{Points: 0, RangeMultiplier: 3, SingleStrikeDivisor: 1.5})
	assert.Len(t, c.Prices, 2)
}
