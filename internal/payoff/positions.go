package payoff

import (
	"fmt"
	"sort"

	"option-payoff/internal/models"
)

// PositionLine is a net position after legs with the same terms are merged.
type PositionLine struct {
	Category models.Category `json:"category"`
	Strike   float64         `json:"strike,omitempty"`
	Price    float64         `json:"price"` // premium for options, entry price for underlyings
	Position int             `json:"position"`
}

// String renders the line as "+1 95.0 Call -6.25". The price carries the
// cash-flow sign: paid for long positions, received for short ones.
func (l PositionLine) String() string {
	price := fmt.Sprintf("%.2f", l.Price)
	pos := fmt.Sprintf("%d", l.Position)
	if l.Position > 0 {
		pos = "+" + pos
		price = "-" + price
	}
	if l.Category == models.CategoryUnderlying {
		return fmt.Sprintf("%s Underlying %s", pos, price)
	}
	return fmt.Sprintf("%s %.1f %s %s", pos, l.Strike, l.Category.Label(), price)
}

type positionKey struct {
	category models.Category
	strike   float64
	price    float64
}

// ConsolidatePositions merges legs with the same category, strike and price
// into one signed position and drops the ones that net to zero. Options come
// first, ordered by kind then strike then premium; underlyings follow by price.
func ConsolidatePositions(b Book) []PositionLine {
	totals := make(map[positionKey]int)
	var order []positionKey
	add := func(k positionKey, pos int) {
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += pos
	}
	for _, leg := range b.Options() {
		cat := models.CategoryCall
		if leg.Kind == models.Put {
			cat = models.CategoryPut
		}
		add(positionKey{category: cat, strike: leg.Strike, price: leg.Premium}, leg.Position())
	}
	for _, leg := range b.Underlyings.Legs() {
		add(positionKey{category: models.CategoryUnderlying, price: leg.Price}, leg.Position())
	}

	lines := make([]PositionLine, 0, len(order))
	for _, k := range order {
		if totals[k] == 0 {
			continue
		}
		lines = append(lines, PositionLine{Category: k.category, Strike: k.strike, Price: k.price, Position: totals[k]})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		a, c := lines[i], lines[j]
		if a.Category != c.Category {
			return categoryRank(a.Category) < categoryRank(c.Category)
		}
		if a.Strike != c.Strike {
			return a.Strike < c.Strike
		}
		return a.Price < c.Price
	})
	return lines
}

func categoryRank(c models.Category) int {
	for i, cat := range models.Categories {
		if cat == c {
			return i
		}
	}
	return len(models.Categories)
}

// StrikeQuantity is the contract count per kind at one strike.
type StrikeQuantity struct {
	Strike float64 `json:"strike"`
	Calls  int     `json:"calls"`
	Puts   int     `json:"puts"`
}

// StrikeBreakdown counts call and put contracts at every ladder strike,
// regardless of side.
func StrikeBreakdown(options []models.OptionLeg) []StrikeQuantity {
	strikes := StrikeLadder(options)
	out := make([]StrikeQuantity, len(strikes))
	for i, k := range strikes {
		out[i].Strike = k
	}
	for _, leg := range options {
		i := sort.SearchFloat64s(strikes, leg.Strike)
		switch leg.Kind {
		case models.Call:
			out[i].Calls += leg.Quantity
		case models.Put:
			out[i].Puts += leg.Quantity
		}
	}
	return out
}

// AssetMix is the total number of contracts traded per category.
type AssetMix struct {
	Calls       int `json:"calls"`
	Puts        int `json:"puts"`
	Underlyings int `json:"underlyings"`
}

// Total returns the contract count across categories.
func (m AssetMix) Total() int {
	return m.Calls + m.Puts + m.Underlyings
}

// Share returns the fraction of contracts in one category, 0 for an empty mix.
func (m AssetMix) Share(c models.Category) float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	n := 0
	switch c {
	case models.CategoryCall:
		n = m.Calls
	case models.CategoryPut:
		n = m.Puts
	case models.CategoryUnderlying:
		n = m.Underlyings
	}
	return float64(n) / float64(total)
}

// MixOf computes the asset mix from book summaries.
func MixOf(summaries map[models.Category]Summary) AssetMix {
	count := func(c models.Category) int {
		s := summaries[c]
		return s.Bought + s.Sold
	}
	return AssetMix{
		Calls:       count(models.CategoryCall),
		Puts:        count(models.CategoryPut),
		Underlyings: count(models.CategoryUnderlying),
	}
}
