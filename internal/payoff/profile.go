package payoff

import (
	"fmt"
	"math"
	"sort"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/models"
)

// Profile is the piecewise-linear expiration P&L of a book.
//
// Strikes is the ladder of distinct option strikes in ascending order. It
// splits the price axis into len(Strikes)+1 intervals: IntervalSlopes[0] is
// the slope below the lowest strike, IntervalSlopes[i] the slope between
// Strikes[i-1] and Strikes[i], and the last entry the slope above the highest
// strike. PnL[i] is the total P&L if the stock settles exactly at Strikes[i].
type Profile struct {
	Strikes         []float64 `json:"strikes"`
	IntervalSlopes  []int     `json:"interval_slopes"`
	PnL             []float64 `json:"pnl_at_strike"`
	UnderlyingSlope int       `json:"underlying_slope"`
}

// BuildProfile derives the ladder, interval slopes and P&L per strike.
// At least one option leg is required.
func BuildProfile(options []models.OptionLeg, underlyings []models.UnderlyingLeg) (*Profile, error) {
	if len(options) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrEmptyPortfolio, "payoff profile needs at least one option leg")
	}

	strikes := StrikeLadder(options)

	underlyingSlope := 0
	for _, u := range underlyings {
		underlyingSlope += u.Position()
	}

	slopes := make([]int, len(strikes)+1)
	for i := range slopes {
		slopes[i] = underlyingSlope
	}
	for _, leg := range options {
		// Index of the leg strike on the ladder; intervals above it are i+1..n.
		idx := sort.SearchFloat64s(strikes, leg.Strike)
		switch leg.Kind {
		case models.Call:
			for i := idx + 1; i < len(slopes); i++ {
				slopes[i] += leg.SlopeSign()
			}
		case models.Put:
			for i := 0; i <= idx; i++ {
				slopes[i] += leg.SlopeSign()
			}
		}
	}

	pnl := make([]float64, len(strikes))
	for i, k := range strikes {
		total := 0.0
		for _, leg := range options {
			total += OptionPnL(leg, k)
		}
		for _, u := range underlyings {
			total += UnderlyingPnL(u, k)
		}
		pnl[i] = total
	}

	return &Profile{
		Strikes:         strikes,
		IntervalSlopes:  slopes,
		PnL:             pnl,
		UnderlyingSlope: underlyingSlope,
	}, nil
}

// StrikeLadder returns the distinct strikes of legs in ascending order.
func StrikeLadder(options []models.OptionLeg) []float64 {
	seen := make(map[float64]struct{}, len(options))
	strikes := make([]float64, 0, len(options))
	for _, leg := range options {
		if _, ok := seen[leg.Strike]; ok {
			continue
		}
		seen[leg.Strike] = struct{}{}
		strikes = append(strikes, leg.Strike)
	}
	sort.Float64s(strikes)
	return strikes
}

// OptionPnL is the expiration P&L of one option leg if the stock settles at price.
func OptionPnL(leg models.OptionLeg, price float64) float64 {
	pos := float64(leg.Position())
	switch leg.Kind {
	case models.Call:
		if leg.Strike >= price {
			return leg.Premium * -pos
		}
		return (price - leg.Strike - leg.Premium) * pos
	case models.Put:
		if leg.Strike <= price {
			return leg.Premium * -pos
		}
		return (math.Abs(price-leg.Strike) - leg.Premium) * pos
	}
	return 0
}

// UnderlyingPnL is the P&L of an underlying leg if the stock settles at price.
func UnderlyingPnL(leg models.UnderlyingLeg, price float64) float64 {
	return (price - leg.Price) * float64(leg.Position())
}

// Intervals returns the number of price intervals on the ladder.
func (p *Profile) Intervals() int {
	return len(p.IntervalSlopes)
}

// Bounds returns the lower and upper edge of interval i. Unbounded edges are
// reported as -Inf and +Inf.
func (p *Profile) Bounds(i int) (lower, upper float64) {
	lower, upper = math.Inf(-1), math.Inf(1)
	if i > 0 {
		lower = p.Strikes[i-1]
	}
	if i < len(p.Strikes) {
		upper = p.Strikes[i]
	}
	return lower, upper
}

// anchor returns the ladder point used to extend interval i: the lower edge
// for every interval except the one below the lowest strike.
func (p *Profile) anchor(i int) (strike, pnl float64) {
	if i == 0 {
		return p.Strikes[0], p.PnL[0]
	}
	return p.Strikes[i-1], p.PnL[i-1]
}

// Value evaluates the payoff at any terminal price.
func (p *Profile) Value(price float64) float64 {
	i := p.IntervalOf(price)
	k, pnl := p.anchor(i)
	return pnl + float64(p.IntervalSlopes[i])*(price-k)
}

// IntervalOf returns the index of the interval containing price. A price
// equal to a strike belongs to the interval below it.
func (p *Profile) IntervalOf(price float64) int {
	return sort.SearchFloat64s(p.Strikes, price)
}

// IntervalLabel names interval i the way the ladder table prints it.
func (p *Profile) IntervalLabel(i int) string {
	lower, upper := p.Bounds(i)
	switch {
	case math.IsInf(lower, -1):
		return fmt.Sprintf("Below %g", upper)
	case math.IsInf(upper, 1):
		return fmt.Sprintf("Above %g", lower)
	}
	return fmt.Sprintf("%g - %g", lower, upper)
}

// MaxPnL returns the highest P&L on the ladder.
func (p *Profile) MaxPnL() float64 {
	m := math.Inf(-1)
	for _, v := range p.PnL {
		m = math.Max(m, v)
	}
	return m
}

// MinPnL returns the lowest P&L on the ladder.
func (p *Profile) MinPnL() float64 {
	m := math.Inf(1)
	for _, v := range p.PnL {
		m = math.Min(m, v)
	}
	return m
}

// EqualSpacing reports whether consecutive strikes are equally spaced.
// Ladders with fewer than three strikes are trivially equally spaced.
func EqualSpacing(strikes []float64) bool {
	if len(strikes) < 3 {
		return true
	}
	first := strikes[1] - strikes[0]
	for i := 2; i < len(strikes); i++ {
		if !approxEqual(strikes[i]-strikes[i-1], first) {
			return false
		}
	}
	return true
}

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tolerance*scale
}
