package payoff

import (
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"option-payoff/internal/models"
)

func call(strike float64, qty int, side models.Side, premium float64) models.OptionLeg {
	return models.OptionLeg{Kind: models.Call, Strike: strike, Quantity: qty, Side: side, Premium: premium}
}

func put(strike float64, qty int, side models.Side, premium float64) models.OptionLeg {
	return models.OptionLeg{Kind: models.Put, Strike: strike, Quantity: qty, Side: side, Premium: premium}
}

func stock(qty int, side models.Side, price float64) models.UnderlyingLeg {
	return models.UnderlyingLeg{Quantity: qty, Side: side, Price: price}
}

const (
	buy  = models.SideBuy
	sell = models.SideSell
)

func newTestParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	return parameters
}

// strikeGen draws strikes from a small grid so generated books share strikes.
func strikeGen() gopter.Gen {
	return gen.IntRange(16, 24).Map(func(i int) float64 { return float64(i) * 5 })
}

func sideGen() gopter.Gen {
	return gen.OneConstOf(models.SideBuy, models.SideSell)
}

func optionLegGen() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf(models.Call, models.Put),
		strikeGen(),
		gen.IntRange(1, 5),
		sideGen(),
		gen.Float64Range(0.25, 20),
	).Map(func(v []interface{}) models.OptionLeg {
		return models.OptionLeg{
			Kind:     v[0].(models.OptionKind),
			Strike:   v[1].(float64),
			Quantity: v[2].(int),
			Side:     v[3].(models.Side),
			Premium:  v[4].(float64),
		}
	})
}

func underlyingLegGen() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(1, 5),
		sideGen(),
		gen.Float64Range(60, 140),
	).Map(func(v []interface{}) models.UnderlyingLeg {
		return models.UnderlyingLeg{
			Quantity: v[0].(int),
			Side:     v[1].(models.Side),
			Price:    v[2].(float64),
		}
	})
}

func optionBookGen() gopter.Gen {
	return gen.SliceOf(optionLegGen()).SuchThat(func(legs []models.OptionLeg) bool {
		return len(legs) > 0
	})
}
