package payoff

import (
	"sort"

	apperrors "option-payoff/internal/errors"
)

// SolveInterval returns the zero of the payoff inside interval i. The payoff
// is affine within an interval, so the root is anchor - pnl(anchor)/slope.
// ok is false when the line does not cross zero inside the interval (edges
// inclusive). A flat interval yields a *SlopeError matching ErrUndefinedSlope.
func (p *Profile) SolveInterval(i int) (root float64, ok bool, err error) {
	lower, upper := p.Bounds(i)
	slope := p.IntervalSlopes[i]
	if slope == 0 {
		return 0, false, apperrors.NewSlopeError(i, lower, upper)
	}
	k, pnl := p.anchor(i)
	root = k - pnl/float64(slope)
	if root < lower && !approxEqual(root, lower) {
		return 0, false, nil
	}
	if root > upper && !approxEqual(root, upper) {
		return 0, false, nil
	}
	return root, true, nil
}

// characteristicIntervals lists the intervals in which a named strategy can
// cross zero. n is the number of intervals (strikes + 1). Straddles and
// strangles with unequal call and put quantities slope between the strikes,
// so every interval is solved for them.
func characteristicIntervals(s Strategy, n int) []int {
	inner := make([]int, 0, n)
	for i := 1; i < n-1; i++ {
		inner = append(inner, i)
	}
	switch s {
	case NakedCall:
		return []int{n - 1}
	case NakedPut:
		return []int{0}
	case Straddle, Strangle:
		return append(append([]int{0}, inner...), n-1)
	case CallRatioSpread, CallChristmasTree:
		return append(inner, n-1)
	case PutRatioSpread, PutChristmasTree:
		return append([]int{0}, inner...)
	case Butterfly, Condor:
		return inner
	}
	return nil
}

// BreakEvens returns the break-even prices of a classified book in ascending
// order. Named strategies use their closed-form intervals; Custom books fall
// back to GenericBreakEvens.
func BreakEvens(s Strategy, p *Profile) []float64 {
	if !s.Named() {
		roots, _ := GenericBreakEvens(p)
		return roots
	}

	var roots []float64
	for _, i := range characteristicIntervals(s, p.Intervals()) {
		root, ok, err := p.SolveInterval(i)
		if err != nil || !ok {
			continue
		}
		roots = append(roots, root)
	}
	return normalizeRoots(roots)
}

// GenericBreakEvens scans the ladder for sign changes of the P&L and solves
// each crossing inside its interval, giving one root per sign change.
// Ladder points with P&L exactly zero are roots themselves. The two unbounded
// tails are solved as well, so a tail whose slope carries the payoff across
// zero beyond the outermost strike contributes its root. Intervals skipped
// because their slope is zero are reported in skipped.
func GenericBreakEvens(p *Profile) (roots []float64, skipped []error) {
	n := len(p.Strikes)
	if n == 0 {
		return nil, nil
	}

	try := func(i int) {
		root, ok, err := p.SolveInterval(i)
		if err != nil {
			skipped = append(skipped, err)
			return
		}
		if ok {
			roots = append(roots, root)
		}
	}

	try(0)
	for i := 0; i < n; i++ {
		if p.PnL[i] == 0 {
			roots = append(roots, p.Strikes[i])
		}
		if i+1 < n && sign(p.PnL[i])*sign(p.PnL[i+1]) < 0 {
			try(i + 1)
		}
	}
	try(n)

	return normalizeRoots(roots), skipped
}

// SignChanges counts sign changes of the P&L between consecutive ladder points.
func (p *Profile) SignChanges() int {
	changes := 0
	for i := 1; i < len(p.PnL); i++ {
		if sign(p.PnL[i-1]) != sign(p.PnL[i]) {
			changes++
		}
	}
	return changes
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// normalizeRoots sorts roots and drops near-duplicates.
func normalizeRoots(roots []float64) []float64 {
	if len(roots) == 0 {
		return []float64{}
	}
	sort.Float64s(roots)
	out := roots[:1]
	for _, r := range roots[1:] {
		if !approxEqual(r, out[len(out)-1]) {
			out = append(out, r)
		}
	}
	return out
}
