package payoff

import (
	"fmt"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/models"
)

// Book groups the three leg portfolios that make up one analysis input.
type Book struct {
	Calls       Portfolio[models.OptionLeg]
	Puts        Portfolio[models.OptionLeg]
	Underlyings Portfolio[models.UnderlyingLeg]
}

// NewBook builds a book from flat leg lists. Option legs are routed by kind.
func NewBook(options []models.OptionLeg, underlyings []models.UnderlyingLeg) (Book, error) {
	var calls, puts []models.OptionLeg
	for _, leg := range options {
		switch leg.Kind {
		case models.Call:
			calls = append(calls, leg)
		case models.Put:
			puts = append(puts, leg)
		default:
			return Book{}, apperrors.NewInvalidLegError("kind", leg.Kind, "must be CALL or PUT")
		}
	}

	var b Book
	var err error
	if b.Calls, err = NewPortfolio(calls...); err != nil {
		return Book{}, err
	}
	if b.Puts, err = NewPortfolio(puts...); err != nil {
		return Book{}, err
	}
	if b.Underlyings, err = NewPortfolio(underlyings...); err != nil {
		return Book{}, err
	}
	return b, nil
}

// AddOption appends an option leg to the calls or puts portfolio.
func (b Book) AddOption(leg models.OptionLeg) (Book, error) {
	var err error
	switch leg.Kind {
	case models.Call:
		b.Calls, err = b.Calls.Add(leg)
	case models.Put:
		b.Puts, err = b.Puts.Add(leg)
	default:
		err = apperrors.NewInvalidLegError("kind", leg.Kind, "must be CALL or PUT")
	}
	return b, err
}

// AddUnderlying appends an underlying leg.
func (b Book) AddUnderlying(leg models.UnderlyingLeg) (Book, error) {
	var err error
	b.Underlyings, err = b.Underlyings.Add(leg)
	return b, err
}

// RemoveLast undoes the last entry of one portfolio.
func (b Book) RemoveLast(c models.Category) (Book, error) {
	switch c {
	case models.CategoryCall:
		b.Calls = b.Calls.RemoveLast()
	case models.CategoryPut:
		b.Puts = b.Puts.RemoveLast()
	case models.CategoryUnderlying:
		b.Underlyings = b.Underlyings.RemoveLast()
	default:
		return b, unknownCategory(c)
	}
	return b, nil
}

// SwapSides flips Buy and Sell across one portfolio.
func (b Book) SwapSides(c models.Category) (Book, error) {
	switch c {
	case models.CategoryCall:
		b.Calls = b.Calls.SwapSides()
	case models.CategoryPut:
		b.Puts = b.Puts.SwapSides()
	case models.CategoryUnderlying:
		b.Underlyings = b.Underlyings.SwapSides()
	default:
		return b, unknownCategory(c)
	}
	return b, nil
}

// Reset empties one portfolio.
func (b Book) Reset(c models.Category) (Book, error) {
	switch c {
	case models.CategoryCall:
		b.Calls = b.Calls.Reset()
	case models.CategoryPut:
		b.Puts = b.Puts.Reset()
	case models.CategoryUnderlying:
		b.Underlyings = b.Underlyings.Reset()
	default:
		return b, unknownCategory(c)
	}
	return b, nil
}

// Len returns the number of legs in one portfolio.
func (b Book) Len(c models.Category) int {
	switch c {
	case models.CategoryCall:
		return b.Calls.Len()
	case models.CategoryPut:
		return b.Puts.Len()
	case models.CategoryUnderlying:
		return b.Underlyings.Len()
	}
	return 0
}

// Options returns calls followed by puts.
func (b Book) Options() []models.OptionLeg {
	return append(b.Calls.Legs(), b.Puts.Legs()...)
}

// HasOptions reports whether at least one option leg is present.
func (b Book) HasOptions() bool {
	return !b.Calls.IsEmpty() || !b.Puts.IsEmpty()
}

// IsEmpty reports whether the book has no legs at all.
func (b Book) IsEmpty() bool {
	return b.Calls.IsEmpty() && b.Puts.IsEmpty() && b.Underlyings.IsEmpty()
}

// Summaries returns the stats of every non-empty portfolio, keyed by category.
func (b Book) Summaries() map[models.Category]Summary {
	out := make(map[models.Category]Summary, 3)
	if s, err := b.Calls.Stats(models.CategoryCall); err == nil {
		out[models.CategoryCall] = s
	}
	if s, err := b.Puts.Stats(models.CategoryPut); err == nil {
		out[models.CategoryPut] = s
	}
	if s, err := b.Underlyings.Stats(models.CategoryUnderlying); err == nil {
		out[models.CategoryUnderlying] = s
	}
	return out
}

func unknownCategory(c models.Category) error {
	return apperrors.Wrap(apperrors.ErrInputValidation, fmt.Sprintf("unknown category %q", c))
}
