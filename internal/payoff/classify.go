package payoff

import (
	"encoding/json"

	"option-payoff/internal/models"
)

// Strategy is the named structure of an option book.
type Strategy int

const (
	// Custom is the default for books no rule matches.
	Custom Strategy = iota
	// CustomHedged marks books holding underlying legs; the named catalog
	// only covers option-only structures.
	CustomHedged
	Straddle
	NakedCall
	NakedPut
	Strangle
	CallRatioSpread
	PutRatioSpread
	Butterfly
	CallChristmasTree
	PutChristmasTree
	Condor
)

var strategyNames = map[Strategy]string{
	Custom:            "Custom",
	CustomHedged:      "Custom/Hedged",
	Straddle:          "Straddle",
	NakedCall:         "Naked Call",
	NakedPut:          "Naked Put",
	Strangle:          "Strangle",
	CallRatioSpread:   "Call Ratio Spread",
	PutRatioSpread:    "Put Ratio Spread",
	Butterfly:         "Butterfly",
	CallChristmasTree: "Call Christmas Tree",
	PutChristmasTree:  "Put Christmas Tree",
	Condor:            "Condor",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "Custom"
}

// Named reports whether the strategy has a closed-form break-even rule.
func (s Strategy) Named() bool {
	return s != Custom && s != CustomHedged
}

// MarshalJSON encodes the strategy by name.
func (s Strategy) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a strategy name. Unknown names decode as Custom.
func (s *Strategy) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*s = ParseStrategy(name)
	return nil
}

// ParseStrategy maps a display name back to its strategy.
func ParseStrategy(name string) Strategy {
	for s, n := range strategyNames {
		if n == name {
			return s
		}
	}
	return Custom
}

// Features are the inputs of the classification table.
type Features struct {
	StrikeCount    int
	HasCalls       bool
	HasPuts        bool
	EqualSpacing   bool
	WingsSymmetric bool // first and last strike gaps are equal
	Bought         int
	Sold           int
	CallQuantity   int
	PutQuantity    int
	HasUnderlying  bool
}

// KindCount returns the number of distinct option kinds present.
func (f Features) KindCount() int {
	n := 0
	if f.HasCalls {
		n++
	}
	if f.HasPuts {
		n++
	}
	return n
}

// OneSided reports whether options were only bought or only sold.
func (f Features) OneSided() bool {
	return f.Bought == 0 || f.Sold == 0
}

// ExtractFeatures computes the classification inputs of a book.
func ExtractFeatures(options []models.OptionLeg, underlyings []models.UnderlyingLeg) Features {
	strikes := StrikeLadder(options)
	f := Features{
		StrikeCount:   len(strikes),
		EqualSpacing:  EqualSpacing(strikes),
		HasUnderlying: len(underlyings) > 0,
	}
	if n := len(strikes); n >= 2 {
		f.WingsSymmetric = approxEqual(strikes[1]-strikes[0], strikes[n-1]-strikes[n-2])
	}
	for _, leg := range options {
		switch leg.Kind {
		case models.Call:
			f.HasCalls = true
			f.CallQuantity += leg.Quantity
		case models.Put:
			f.HasPuts = true
			f.PutQuantity += leg.Quantity
		}
		switch leg.Side {
		case models.SideBuy:
			f.Bought += leg.Quantity
		case models.SideSell:
			f.Sold += leg.Quantity
		}
	}
	return f
}

type rule struct {
	match    func(Features) bool
	classify func(Features) Strategy
}

func fixed(s Strategy) func(Features) Strategy {
	return func(Features) Strategy { return s }
}

func byKind(call, put Strategy) func(Features) Strategy {
	return func(f Features) Strategy {
		if f.HasCalls {
			return call
		}
		return put
	}
}

// rules is evaluated top to bottom; the first match wins.
var rules = []rule{
	{
		match:    func(f Features) bool { return f.HasUnderlying },
		classify: fixed(CustomHedged),
	},
	{
		match: func(f Features) bool {
			return f.StrikeCount == 1 && f.KindCount() == 2 && f.CallQuantity == f.PutQuantity
		},
		classify: fixed(Straddle),
	},
	{
		match: func(f Features) bool {
			return f.StrikeCount == 1 && f.KindCount() == 1 && f.OneSided()
		},
		classify: byKind(NakedCall, NakedPut),
	},
	{
		match: func(f Features) bool {
			return f.StrikeCount == 2 && f.KindCount() == 2 && f.Bought != f.Sold && f.OneSided()
		},
		classify: fixed(Strangle),
	},
	{
		match: func(f Features) bool {
			return f.StrikeCount == 2 && f.KindCount() == 1 && f.Bought != f.Sold
		},
		classify: byKind(CallRatioSpread, PutRatioSpread),
	},
	{
		match: func(f Features) bool {
			return f.StrikeCount == 3 && f.KindCount() == 1 && f.Bought == f.Sold && f.EqualSpacing
		},
		classify: fixed(Butterfly),
	},
	{
		match: func(f Features) bool {
			return f.StrikeCount == 3 && f.KindCount() == 1 && f.Bought > 0 && f.Sold > 0 &&
				(f.Sold == 2*f.Bought || f.Bought == 2*f.Sold)
		},
		classify: byKind(CallChristmasTree, PutChristmasTree),
	},
	{
		match: func(f Features) bool {
			return f.StrikeCount == 4 && f.KindCount() == 1 && f.Bought == f.Sold && f.WingsSymmetric
		},
		classify: fixed(Condor),
	},
}

// Classify maps features to a strategy using the ordered rule table.
func Classify(f Features) Strategy {
	for _, r := range rules {
		if r.match(f) {
			return r.classify(f)
		}
	}
	return Custom
}

// ClassifyLegs is a convenience wrapper around ExtractFeatures and Classify.
func ClassifyLegs(options []models.OptionLeg, underlyings []models.UnderlyingLeg) Strategy {
	return Classify(ExtractFeatures(options, underlyings))
}
