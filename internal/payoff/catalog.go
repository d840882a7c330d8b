package payoff

// CatalogEntry describes one named volatility spread, seen from the long
// (net debit) side.
type CatalogEntry struct {
	Strategy  Strategy `json:"strategy"`
	Structure string   `json:"structure"`
	Outlook   string   `json:"outlook"`
	BreakEven string   `json:"break_even"`
	Risk      string   `json:"risk"`
}

// Catalog lists the strategies the classifier can name.
var Catalog = []CatalogEntry{
	{
		Strategy:  Straddle,
		Structure: "Buy a call and a put at the same strike and expiry",
		Outlook:   "Large move in either direction",
		BreakEven: "Strike ± total premium",
		Risk:      "Limited: loss capped at premium paid",
	},
	{
		Strategy:  Strangle,
		Structure: "Buy a call and a put at different strikes",
		Outlook:   "Large move, cheaper than a straddle",
		BreakEven: "Lower strike - premium, upper strike + premium",
		Risk:      "Limited: loss capped at premium paid",
	},
	{
		Strategy:  Butterfly,
		Structure: "Buy 1 low strike, sell 2 middle, buy 1 high (equal spacing)",
		Outlook:   "Stock pins near the middle strike",
		BreakEven: "One inside each wing",
		Risk:      "Limited both ways",
	},
	{
		Strategy:  Condor,
		Structure: "Four strikes of one kind, bought and sold in equal numbers",
		Outlook:   "Stock stays inside the inner strikes",
		BreakEven: "One inside each outer interval",
		Risk:      "Limited both ways",
	},
	{
		Strategy:  CallRatioSpread,
		Structure: "Buy 1 call, sell 2 or more higher-strike calls",
		Outlook:   "Moderate rise, not a rally",
		BreakEven: "Above the short strike, and inside the spread for a debit",
		Risk:      "Unlimited on the upside if uncovered",
	},
	{
		Strategy:  PutRatioSpread,
		Structure: "Buy 1 put, sell 2 or more lower-strike puts",
		Outlook:   "Mild decline, support holds",
		BreakEven: "Below the short strike, and inside the spread for a debit",
		Risk:      "Unlimited on the downside if uncovered",
	},
	{
		Strategy:  CallChristmasTree,
		Structure: "Three call strikes with a 2:1 sold-to-bought ratio",
		Outlook:   "Controlled drift upward",
		BreakEven: "Inside the tree and above the top strike",
		Risk:      "Depends on the ratio; short-heavy trees are open above",
	},
	{
		Strategy:  PutChristmasTree,
		Structure: "Three put strikes with a 2:1 sold-to-bought ratio",
		Outlook:   "Controlled drift downward",
		BreakEven: "Inside the tree and below the bottom strike",
		Risk:      "Depends on the ratio; short-heavy trees are open below",
	},
	{
		Strategy:  NakedCall,
		Structure: "Calls at one strike, only bought or only sold",
		Outlook:   "Directional: bullish when bought",
		BreakEven: "Strike + premium",
		Risk:      "Limited when bought, unlimited when sold",
	},
	{
		Strategy:  NakedPut,
		Structure: "Puts at one strike, only bought or only sold",
		Outlook:   "Directional: bearish when bought",
		BreakEven: "Strike - premium",
		Risk:      "Limited when bought, large when sold",
	},
}
