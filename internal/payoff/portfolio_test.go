package payoff

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/models"
)

func TestPortfolio_AddRejectsInvalidLegs(t *testing.T) {
	base, err := NewPortfolio(call(100, 1, buy, 5))
	require.NoError(t, err)

	tests := []struct {
		name  string
		leg   models.OptionLeg
		field string
	}{
		{"zero strike", call(0, 1, buy, 5), "strike"},
		{"negative strike", call(-10, 1, buy, 5), "strike"},
		{"zero premium", call(100, 1, buy, 0), "premium"},
		{"zero quantity", call(100, 0, buy, 5), "quantity"},
		{"unknown side", call(100, 1, models.Side("HOLD"), 5), "side"},
		{"unknown kind", models.OptionLeg{Kind: "STRADDLE", Strike: 100, Quantity: 1, Side: buy, Premium: 5}, "kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := base.Add(tt.leg)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidLeg)

			var legErr *apperrors.InvalidLegError
			require.ErrorAs(t, err, &legErr)
			assert.Equal(t, tt.field, legErr.Field)

			assert.Equal(t, base.Legs(), next.Legs(), "rejected leg must not enter the portfolio")
		})
	}
}

func TestPortfolio_UnderlyingRejectsNonPositivePrice(t *testing.T) {
	var p Portfolio[models.UnderlyingLeg]
	_, err := p.Add(stock(2, sell, 0))
	assert.ErrorIs(t, err, apperrors.ErrInvalidLeg)
}

func TestPortfolio_OperationsDoNotMutateReceiver(t *testing.T) {
	p, err := NewPortfolio(call(100, 1, buy, 5), call(110, 2, sell, 2))
	require.NoError(t, err)
	before := p.Legs()

	_, err = p.Add(call(120, 1, buy, 1))
	require.NoError(t, err)
	_ = p.RemoveLast()
	_ = p.SwapSides()
	_ = p.Reset()

	assert.Equal(t, before, p.Legs())
}

func TestPortfolio_RemoveLastOnEmpty(t *testing.T) {
	var p Portfolio[models.OptionLeg]
	got := p.RemoveLast()
	assert.True(t, got.IsEmpty())
	assert.Equal(t, 0, got.Len())
}

func TestPortfolio_Reset(t *testing.T) {
	p, err := NewPortfolio(put(95, 1, sell, 3))
	require.NoError(t, err)
	assert.True(t, p.Reset().IsEmpty())
}

func TestPortfolio_Stats(t *testing.T) {
	p, err := NewPortfolio(
		put(105, 2, sell, 7.75),
		put(95, 1, buy, 2.5),
		put(90, 3, sell, 1),
	)
	require.NoError(t, err)

	s, err := p.Stats(models.CategoryPut)
	require.NoError(t, err)

	assert.Equal(t, models.CategoryPut, s.Category)
	assert.Equal(t, 1, s.Bought)
	assert.Equal(t, 5, s.Sold)
	assert.Equal(t, -4, s.NetPosition)
	assert.InDelta(t, 2.5, s.Paid, 1e-9)
	assert.InDelta(t, 18.5, s.Received, 1e-9)
	assert.InDelta(t, 16.0, s.NetAmount, 1e-9)
	assert.Equal(t, "Short", s.Direction())
}

func TestPortfolio_StatsEmpty(t *testing.T) {
	var p Portfolio[models.UnderlyingLeg]
	_, err := p.Stats(models.CategoryUnderlying)
	assert.ErrorIs(t, err, apperrors.ErrEmptyPortfolio)
}

func TestSummary_Direction(t *testing.T) {
	assert.Equal(t, "Long", Summary{NetPosition: 2}.Direction())
	assert.Equal(t, "Neutral", Summary{}.Direction())
}

func TestNewBook_RejectsUnknownKind(t *testing.T) {
	_, err := NewBook([]models.OptionLeg{{Kind: "FUTURE", Strike: 100, Quantity: 1, Side: buy, Premium: 1}}, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidLeg)

	_, err = NewBook(nil, []models.UnderlyingLeg{stock(1, buy, 0)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidLeg)
}

func TestBook_RoutesOptionsByKind(t *testing.T) {
	b, err := NewBook(
		[]models.OptionLeg{call(95, 1, buy, 6.25), put(105, 2, sell, 7.75)},
		[]models.UnderlyingLeg{stock(2, sell, 98)},
	)
	require.NoError(t, err)

	assert.Equal(t, 1, b.Len(models.CategoryCall))
	assert.Equal(t, 1, b.Len(models.CategoryPut))
	assert.Equal(t, 1, b.Len(models.CategoryUnderlying))
	assert.True(t, b.HasOptions())
	assert.Len(t, b.Options(), 2)
	assert.Equal(t, models.Call, b.Options()[0].Kind)
}

func TestBook_CategoryOperations(t *testing.T) {
	b, err := NewBook([]models.OptionLeg{call(95, 1, buy, 6.25), call(100, 1, sell, 3)}, nil)
	require.NoError(t, err)

	b, err = b.SwapSides(models.CategoryCall)
	require.NoError(t, err)
	assert.Equal(t, sell, b.Calls.Legs()[0].Side)

	b, err = b.RemoveLast(models.CategoryCall)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len(models.CategoryCall))

	b, err = b.Reset(models.CategoryCall)
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())

	_, err = b.Reset(models.Category("FUTURE"))
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)
}

func TestBook_SummariesSkipEmptyPortfolios(t *testing.T) {
	b, err := NewBook([]models.OptionLeg{call(95, 1, buy, 6.25)}, nil)
	require.NoError(t, err)

	summaries := b.Summaries()
	assert.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[models.CategoryCall].NetPosition)
}

// Property: swapping sides twice restores the portfolio leg for leg.
func TestProperty_SwapSidesInvolution(t *testing.T) {
	properties := gopter.NewProperties(newTestParameters())

	properties.Property("swap(swap(p)) == p", prop.ForAll(
		func(legs []models.OptionLeg) bool {
			p, err := NewPortfolio(legs...)
			if err != nil {
				t.Logf("unexpected error: %v", err)
				return false
			}
			twice := p.SwapSides().SwapSides()
			return assert.ObjectsAreEqual(p.Legs(), twice.Legs())
		},
		gen.SliceOf(optionLegGen()),
	))

	properties.Property("swap flips every side", prop.ForAll(
		func(legs []models.OptionLeg) bool {
			p, _ := NewPortfolio(legs...)
			swapped := p.SwapSides().Legs()
			for i, leg := range p.Legs() {
				if swapped[i].Side != leg.Side.Opposite() {
					return false
				}
			}
			return true
		},
		gen.SliceOf(optionLegGen()),
	))

	properties.TestingRun(t)
}

// Property: undoing the last leg and re-adding it reproduces the portfolio.
func TestProperty_UndoRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(newTestParameters())

	properties.Property("add(removeLast(p), last) == p", prop.ForAll(
		func(legs []models.UnderlyingLeg) bool {
			p, err := NewPortfolio(legs...)
			if err != nil {
				return false
			}
			all := p.Legs()
			last := all[len(all)-1]

			restored, err := p.RemoveLast().Add(last)
			if err != nil {
				return false
			}
			return assert.ObjectsAreEqual(all, restored.Legs())
		},
		gen.SliceOf(underlyingLegGen()).SuchThat(func(legs []models.UnderlyingLeg) bool {
			return len(legs) > 0
		}),
	))

	properties.TestingRun(t)
}
