package payoff

import (
	"github.com/rs/zerolog"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/models"
)

// Analysis is the full result of analyzing one book snapshot.
type Analysis struct {
	Strategy   Strategy                    `json:"strategy"`
	Profile    *Profile                    `json:"profile"`
	BreakEvens []float64                   `json:"break_even_points"`
	Risk       RiskSummary                 `json:"risk"`
	Summaries  map[models.Category]Summary `json:"summaries"`
	Positions  []PositionLine              `json:"positions"`
	PerStrike  []StrikeQuantity            `json:"contracts_per_strike"`
	Mix        AssetMix                    `json:"asset_mix"`
	Curve      *Curve                      `json:"curve,omitempty"`
}

// Analyzer runs the payoff pipeline. It holds no book state; every call
// recomputes everything from the snapshot it is given.
type Analyzer struct {
	logger zerolog.Logger
	curve  CurveOptions
}

// NewAnalyzer creates an analyzer that samples curves with opts.
func NewAnalyzer(logger zerolog.Logger, opts CurveOptions) *Analyzer {
	return &Analyzer{
		logger: logger.With().Str("component", "analyzer").Logger(),
		curve:  opts,
	}
}

// Analyze builds the profile, classifies the book, solves break-evens and
// aggregates risk. A book without option legs returns ErrEmptyPortfolio.
func (a *Analyzer) Analyze(b Book) (*Analysis, error) {
	options := b.Options()
	underlyings := b.Underlyings.Legs()

	profile, err := BuildProfile(options, underlyings)
	if err != nil {
		return nil, err
	}

	features := ExtractFeatures(options, underlyings)
	strategy := Classify(features)

	var breakEvens []float64
	if strategy.Named() {
		breakEvens = BreakEvens(strategy, profile)
	} else {
		var skipped []error
		breakEvens, skipped = GenericBreakEvens(profile)
		for _, err := range skipped {
			if apperrors.Is(err, apperrors.ErrUndefinedSlope) {
				a.logger.Debug().Err(err).Msg("Interval skipped in break-even scan")
			}
		}
	}

	summaries := b.Summaries()
	analysis := &Analysis{
		Strategy:   strategy,
		Profile:    profile,
		BreakEvens: breakEvens,
		Risk:       AssessBookRisk(summaries),
		Summaries:  summaries,
		Positions:  ConsolidatePositions(b),
		PerStrike:  StrikeBreakdown(options),
		Mix:        MixOf(summaries),
	}

	a.logger.Debug().
		Str("strategy", strategy.String()).
		Int("strikes", len(profile.Strikes)).
		Int("sign_changes", profile.SignChanges()).
		Int("legs", len(options)+len(underlyings)).
		Floats64("break_evens", breakEvens).
		Msg("Book analyzed")

	return analysis, nil
}

// AnalyzeWithCurve runs Analyze and attaches a sampled payoff curve.
func (a *Analyzer) AnalyzeWithCurve(b Book) (*Analysis, error) {
	analysis, err := a.Analyze(b)
	if err != nil {
		return nil, err
	}
	curve := SampleCurve(analysis.Profile, a.curve)
	analysis.Curve = &curve
	return analysis, nil
}
