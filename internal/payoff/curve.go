package payoff

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// CurveOptions controls how a profile is sampled for plotting.
type CurveOptions struct {
	Points              int     // number of samples
	RangeMultiplier     float64 // padding as a multiple of the ladder width
	SingleStrikeDivisor float64 // padding is strike/divisor for a one-strike ladder
}

// DefaultCurveOptions returns the sampling used when nothing is configured.
func DefaultCurveOptions() CurveOptions {
	return CurveOptions{
		Points:              1000,
		RangeMultiplier:     3,
		SingleStrikeDivisor: 1.5,
	}
}

// Curve is a sampled payoff with the axis limits used to draw it.
type Curve struct {
	Prices []float64 `json:"prices"`
	PnL    []float64 `json:"pnl"`
	XMin   float64   `json:"x_min"`
	XMax   float64   `json:"x_max"`
	YMin   float64   `json:"y_min"`
	YMax   float64   `json:"y_max"`
}

// PriceRange returns the x-axis span around the ladder.
func (p *Profile) PriceRange(opts CurveOptions) (lo, hi float64) {
	minK, maxK := p.Strikes[0], p.Strikes[len(p.Strikes)-1]
	var distance float64
	if len(p.Strikes) > 1 {
		distance = (maxK - minK) * opts.RangeMultiplier
	} else {
		distance = minK / opts.SingleStrikeDivisor
	}
	return minK - distance, maxK + distance
}

// PnLRange returns y-axis limits symmetric around zero.
func (p *Profile) PnLRange() (lo, hi float64) {
	var limit float64
	if len(p.PnL) > 1 {
		limit = 1.2 * (math.Abs(floats.Max(p.PnL)) + math.Abs(floats.Min(p.PnL)))
	} else {
		limit = 3 * math.Abs(p.PnL[0])
	}
	if limit == 0 {
		limit = 1
	}
	return -limit, limit
}

// SampleCurve evaluates the profile on an evenly spaced price grid.
func SampleCurve(p *Profile, opts CurveOptions) Curve {
	if opts.Points < 2 {
		opts.Points = 2
	}
	lo, hi := p.PriceRange(opts)
	prices := floats.Span(make([]float64, opts.Points), lo, hi)
	pnl := make([]float64, len(prices))
	for i, x := range prices {
		pnl[i] = p.Value(x)
	}
	yLo, yHi := p.PnLRange()
	return Curve{
		Prices: prices,
		PnL:    pnl,
		XMin:   lo,
		XMax:   hi,
		YMin:   yLo,
		YMax:   yHi,
	}
}
