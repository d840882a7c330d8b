// Package payoff builds expiration payoff profiles for option books, classifies
// the net structure into a named strategy, solves for break-even prices and
// summarizes directional and volatility exposure.
//
// Everything in this package is a pure function of its inputs. Portfolios and
// books are values: mutating operations return a new value and leave the
// receiver untouched, so a caller may keep older snapshots around freely.
package payoff

import (
	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/models"
)

// Leg is the behaviour a portfolio needs from its legs.
type Leg[L any] interface {
	Validate() error
	Swapped() L
	Units() int
	Direction() models.Side
	Notional() float64
}

// Portfolio is an ordered collection of legs of one category. Insertion order
// is kept so RemoveLast undoes the most recent Add.
type Portfolio[L Leg[L]] struct {
	legs []L
}

// NewPortfolio builds a portfolio from legs, validating each one.
func NewPortfolio[L Leg[L]](legs ...L) (Portfolio[L], error) {
	var p Portfolio[L]
	for _, leg := range legs {
		next, err := p.Add(leg)
		if err != nil {
			return Portfolio[L]{}, err
		}
		p = next
	}
	return p, nil
}

// Add returns a portfolio with leg appended. Invalid legs never enter the
// model: the receiver is returned unchanged together with the error.
func (p Portfolio[L]) Add(leg L) (Portfolio[L], error) {
	if err := leg.Validate(); err != nil {
		return p, err
	}
	legs := make([]L, len(p.legs), len(p.legs)+1)
	copy(legs, p.legs)
	return Portfolio[L]{legs: append(legs, leg)}, nil
}

// RemoveLast drops the most recently added leg. Empty portfolios are returned as-is.
func (p Portfolio[L]) RemoveLast() Portfolio[L] {
	if len(p.legs) == 0 {
		return p
	}
	legs := make([]L, len(p.legs)-1)
	copy(legs, p.legs)
	return Portfolio[L]{legs: legs}
}

// SwapSides flips Buy and Sell on every leg.
func (p Portfolio[L]) SwapSides() Portfolio[L] {
	if len(p.legs) == 0 {
		return p
	}
	legs := make([]L, len(p.legs))
	for i, leg := range p.legs {
		legs[i] = leg.Swapped()
	}
	return Portfolio[L]{legs: legs}
}

// Reset returns an empty portfolio.
func (p Portfolio[L]) Reset() Portfolio[L] {
	return Portfolio[L]{}
}

// Legs returns a copy of the legs in insertion order.
func (p Portfolio[L]) Legs() []L {
	legs := make([]L, len(p.legs))
	copy(legs, p.legs)
	return legs
}

// Len returns the number of legs.
func (p Portfolio[L]) Len() int {
	return len(p.legs)
}

// IsEmpty reports whether the portfolio has no legs.
func (p Portfolio[L]) IsEmpty() bool {
	return len(p.legs) == 0
}

// Summary holds the bought/sold totals of one portfolio.
type Summary struct {
	Category    models.Category `json:"category"`
	Bought      int             `json:"bought"`
	Sold        int             `json:"sold"`
	NetPosition int             `json:"net_position"`
	Paid        float64         `json:"paid"`
	Received    float64         `json:"received"`
	NetAmount   float64         `json:"net_amount"`
}

// Direction labels the net position as Long, Short or Neutral.
func (s Summary) Direction() string {
	switch {
	case s.NetPosition > 0:
		return "Long"
	case s.NetPosition < 0:
		return "Short"
	}
	return "Neutral"
}

// Stats summarizes the portfolio. Calling it on an empty portfolio returns
// ErrEmptyPortfolio; callers are expected to check IsEmpty first.
func (p Portfolio[L]) Stats(category models.Category) (Summary, error) {
	if len(p.legs) == 0 {
		return Summary{}, apperrors.Wrapf(apperrors.ErrEmptyPortfolio, "%s stats", category.Label())
	}

	s := Summary{Category: category}
	for _, leg := range p.legs {
		switch leg.Direction() {
		case models.SideBuy:
			s.Bought += leg.Units()
			s.Paid += leg.Notional()
		case models.SideSell:
			s.Sold += leg.Units()
			s.Received += leg.Notional()
		}
	}
	s.NetPosition = s.Bought - s.Sold
	s.NetAmount = s.Received - s.Paid
	return s, nil
}
