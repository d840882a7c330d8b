package models

import (
	"math"

	apperrors "option-payoff/internal/errors"
)

// OptionLeg represents one call or put position.
type OptionLeg struct {
	Kind     OptionKind `json:"kind"`
	Strike   float64    `json:"strike"`
	Quantity int        `json:"quantity"`
	Side     Side       `json:"side"`
	Premium  float64    `json:"premium"` // per unit
}

// Validate checks the leg against the entry invariants.
func (l OptionLeg) Validate() error {
	if !l.Kind.Valid() {
		return apperrors.NewInvalidLegError("kind", l.Kind, "must be CALL or PUT")
	}
	if !(l.Strike > 0) || math.IsInf(l.Strike, 0) {
		return apperrors.NewInvalidLegError("strike", l.Strike, "must be positive")
	}
	if l.Quantity <= 0 {
		return apperrors.NewInvalidLegError("quantity", l.Quantity, "must be positive")
	}
	if !l.Side.Valid() {
		return apperrors.NewInvalidLegError("side", l.Side, "must be BUY or SELL")
	}
	if !(l.Premium > 0) || math.IsInf(l.Premium, 0) {
		return apperrors.NewInvalidLegError("premium", l.Premium, "must be positive")
	}
	return nil
}

// Position is the signed quantity: positive when bought, negative when sold.
func (l OptionLeg) Position() int {
	return l.Quantity * l.Side.Sign()
}

// SlopeSign is the slope one unit of this leg adds once it is in the money.
func (l OptionLeg) SlopeSign() int {
	return l.Position() * l.Kind.Sign()
}

// Swapped returns a copy with Buy and Sell exchanged.
func (l OptionLeg) Swapped() OptionLeg {
	l.Side = l.Side.Opposite()
	return l
}

// Units returns the unsigned quantity.
func (l OptionLeg) Units() int { return l.Quantity }

// Direction returns the leg side.
func (l OptionLeg) Direction() Side { return l.Side }

// Notional returns premium times quantity.
func (l OptionLeg) Notional() float64 {
	return l.Premium * float64(l.Quantity)
}

// UnderlyingLeg represents a position in the underlying instrument.
type UnderlyingLeg struct {
	Quantity int     `json:"quantity"`
	Side     Side    `json:"side"`
	Price    float64 `json:"price"` // entry price
}

// Validate checks the leg against the entry invariants.
func (l UnderlyingLeg) Validate() error {
	if l.Quantity <= 0 {
		return apperrors.NewInvalidLegError("quantity", l.Quantity, "must be positive")
	}
	if !l.Side.Valid() {
		return apperrors.NewInvalidLegError("side", l.Side, "must be BUY or SELL")
	}
	if !(l.Price > 0) || math.IsInf(l.Price, 0) {
		return apperrors.NewInvalidLegError("price", l.Price, "must be positive")
	}
	return nil
}

// Position is the signed quantity.
func (l UnderlyingLeg) Position() int {
	return l.Quantity * l.Side.Sign()
}

// Swapped returns a copy with Buy and Sell exchanged.
func (l UnderlyingLeg) Swapped() UnderlyingLeg {
	l.Side = l.Side.Opposite()
	return l
}

// Units returns the unsigned quantity.
func (l UnderlyingLeg) Units() int { return l.Quantity }

// Direction returns the leg side.
func (l UnderlyingLeg) Direction() Side { return l.Side }

// Notional returns entry price times quantity.
func (l UnderlyingLeg) Notional() float64 {
	return l.Price * float64(l.Quantity)
}
