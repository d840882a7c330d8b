package payoff

import "option-payoff/internal/models"

// Exposure is one line of the risk panel.
type Exposure struct {
	Value   int  `json:"value"`
	Limited bool `json:"limited"`
}

// RiskSummary is a sign heuristic over net contract counts. It flags
// unbounded-loss exposure from uncovered short options, not its magnitude.
type RiskSummary struct {
	DeltaUpside   Exposure `json:"delta_upside"`
	DeltaDownside Exposure `json:"delta_downside"`
	Vega          Exposure `json:"vega_proxy"`
}

// AssessRisk computes the risk summary from net positions. Absent groups
// contribute zero.
func AssessRisk(netCalls, netPuts, netUnderlying int) RiskSummary {
	up := netCalls + netUnderlying
	down := netPuts + netUnderlying
	vega := netCalls + netPuts
	return RiskSummary{
		DeltaUpside:   Exposure{Value: up, Limited: up >= 0},
		DeltaDownside: Exposure{Value: down, Limited: down <= 0},
		Vega:          Exposure{Value: vega, Limited: vega >= 0},
	}
}

// AssessBookRisk reads the net positions from the book summaries.
func AssessBookRisk(summaries map[models.Category]Summary) RiskSummary {
	return AssessRisk(
		summaries[models.CategoryCall].NetPosition,
		summaries[models.CategoryPut].NetPosition,
		summaries[models.CategoryUnderlying].NetPosition,
	)
}
