package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/logging"
	"option-payoff/internal/models"
	"option-payoff/internal/payoff"
)

// addAnalysisCommands adds analyze, stats and the strategy reference.
func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newStatsCmd(app))
	rootCmd.AddCommand(newStrategiesCmd())
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		chart bool
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the payoff of the book at expiry",
		Long: `Analyze the book: P&L per strike interval, strategy name,
break-even prices, risk summary, consolidated positions and asset mix.

Use --chart to draw the payoff curve and --save to keep the result in history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx := cmd.Context()

			name, book, err := app.loadBook(ctx, cmd)
			if err != nil {
				return fail(output, err)
			}
			if !book.HasOptions() {
				if !output.IsJSON() {
					output.Dim("Add a call or put with 'payoff leg add' before analyzing")
				}
				return fail(output, apperrors.Wrapf(apperrors.ErrEmptyPortfolio, "book %s has no option legs", name))
			}

			logger := logging.WithOperation(logging.WithBook(app.Logger, name), "analyze")
			start := time.Now()

			var analysis *payoff.Analysis
			if chart || output.IsJSON() {
				analysis, err = app.Analyzer.AnalyzeWithCurve(book)
			} else {
				analysis, err = app.Analyzer.Analyze(book)
			}
			if err != nil {
				return fail(output, err)
			}
			logging.LogAnalysis(logger, analysis.Strategy.String(), analysis.BreakEvens, time.Since(start))

			if save {
				s, err := app.Store()
				if err != nil {
					return fail(output, err)
				}
				rec, err := s.RecordAnalysis(ctx, name, analysis)
				if err != nil {
					return fail(output, err)
				}
				logger.Debug().Str("id", rec.ID).Msg("Analysis saved")
			}

			if output.IsJSON() {
				return output.JSON(analysis)
			}

			renderAnalysis(output, name, analysis)
			if chart {
				output.Println()
				output.Bold("Payoff at Expiry")
				drawPayoffChart(output, analysis.Curve, app.Config.Chart.Width, app.Config.Chart.Height)
			}
			if save {
				output.Println()
				output.Dim("Saved to history")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&chart, "chart", false, "draw the payoff curve")
	cmd.Flags().BoolVar(&save, "save", false, "record the analysis in history")

	return cmd
}

func renderAnalysis(output *Output, name string, a *payoff.Analysis) {
	output.Bold("Book: %s", name)
	output.Printf("Strategy: %s\n", output.Cyan(a.Strategy.String()))
	output.Println()

	table := NewTable(output, "INTERVAL", "SLOPE", "STRIKE", "P&L AT STRIKE")
	p := a.Profile
	for i := 0; i < p.Intervals(); i++ {
		strike, pnl := "", ""
		if i < len(p.Strikes) {
			strike = FormatPrice(p.Strikes[i])
			pnl = output.FormatPnL(p.PnL[i])
		}
		table.AddRow(p.IntervalLabel(i), FormatSlope(p.IntervalSlopes[i]), strike, pnl)
	}
	table.Render()
	output.Println()

	if len(a.BreakEvens) == 0 {
		output.Warning("Break-even: none, the P&L never crosses zero")
	} else {
		output.Printf("Break-even: %s\n", FormatPrices(a.BreakEvens))
	}
	output.Printf("Max P&L on ladder: %s   Min P&L on ladder: %s\n",
		output.FormatPnL(p.MaxPnL()), output.FormatPnL(p.MinPnL()))
	output.Println()

	output.Box("Risk", []string{
		riskLine(output, "Delta upside", a.Risk.DeltaUpside),
		riskLine(output, "Delta downside", a.Risk.DeltaDownside),
		riskLine(output, "Vega", a.Risk.Vega),
	})
	output.Println()

	if len(a.Positions) > 0 {
		output.Bold("Positions")
		for _, line := range a.Positions {
			output.Printf("  %s\n", line.String())
		}
		output.Println()
	}

	output.Bold("Contracts per Strike")
	perStrike := NewTable(output, "STRIKE", "CALLS", "PUTS")
	for _, sq := range a.PerStrike {
		perStrike.AddRow(FormatPrice(sq.Strike), fmt.Sprintf("%d", sq.Calls), fmt.Sprintf("%d", sq.Puts))
	}
	perStrike.Render()
	output.Println()

	output.Bold("Asset Mix")
	mix := NewTable(output, "CATEGORY", "CONTRACTS", "SHARE")
	counts := map[models.Category]int{
		models.CategoryCall:       a.Mix.Calls,
		models.CategoryPut:        a.Mix.Puts,
		models.CategoryUnderlying: a.Mix.Underlyings,
	}
	for _, c := range models.Categories {
		mix.AddRow(c.Label(), fmt.Sprintf("%d", counts[c]), FormatShare(a.Mix.Share(c)))
	}
	mix.Render()
}

func riskLine(output *Output, label string, e payoff.Exposure) string {
	status := output.Green("Limited")
	if !e.Limited {
		status = output.Red("Unlimited")
	}
	return fmt.Sprintf("%-15s %4s  %s", label, FormatSlope(e.Value), status)
}

// drawPayoffChart plots a sampled curve as a block chart. Each column takes
// the sample nearest to it; points outside the y-range are clipped.
func drawPayoffChart(output *Output, curve *payoff.Curve, width, height int) {
	if curve == nil || len(curve.Prices) < 2 {
		output.Println("  Insufficient data for payoff chart")
		return
	}

	minY, maxY := curve.YMin, curve.YMax
	if maxY <= minY {
		maxY = minY + 1
	}

	chart := make([][]rune, height)
	for i := range chart {
		chart[i] = make([]rune, width)
		for j := range chart[i] {
			chart[i][j] = ' '
		}
	}

	rowOf := func(v float64) int {
		return int(math.Round((v - minY) / (maxY - minY) * float64(height-1)))
	}

	// Zero line
	if zero := rowOf(0); zero >= 0 && zero < height {
		for j := range chart[height-1-zero] {
			chart[height-1-zero][j] = '·'
		}
	}

	n := len(curve.PnL)
	for x := 0; x < width; x++ {
		i := x * (n - 1) / (width - 1)
		y := rowOf(curve.PnL[i])
		if y >= 0 && y < height {
			chart[height-1-y][x] = '█'
		}
	}

	for i := 0; i < height; i++ {
		label := strings.Repeat(" ", 10)
		switch i {
		case 0:
			label = fmt.Sprintf("%10.2f", maxY)
		case height - 1:
			label = fmt.Sprintf("%10.2f", minY)
		}
		output.Printf("  %s │%s\n", label, string(chart[i]))
	}
	output.Printf("  %s └%s\n", strings.Repeat(" ", 10), strings.Repeat("─", width))

	lo, hi := FormatPrice(round2(curve.XMin)), FormatPrice(round2(curve.XMax))
	gap := width - len(lo) - len(hi)
	if gap < 1 {
		gap = 1
	}
	output.Printf("  %s  %s%s%s\n", strings.Repeat(" ", 10), lo, strings.Repeat(" ", gap), hi)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show bought, sold and net totals per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			name, book, err := app.loadBook(cmd.Context(), cmd)
			if err != nil {
				return fail(output, err)
			}

			summaries := book.Summaries()
			if output.IsJSON() {
				return output.JSON(summaries)
			}

			if len(summaries) == 0 {
				output.Info("Book %s is empty", name)
				return nil
			}

			output.Bold("Book: %s", name)
			output.Println()
			table := NewTable(output, "CATEGORY", "BOUGHT", "SOLD", "NET", "PAID", "RECEIVED", "NET AMOUNT")
			for _, c := range models.Categories {
				s, ok := summaries[c]
				if !ok {
					continue
				}
				table.AddRow(
					c.Label(),
					fmt.Sprintf("%d", s.Bought),
					fmt.Sprintf("%d", s.Sold),
					fmt.Sprintf("%s %s", FormatSlope(s.NetPosition), s.Direction()),
					output.Money(s.Paid),
					output.Money(s.Received),
					output.FormatPnL(s.NetAmount),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "Describe the strategies the classifier recognizes",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(payoff.Catalog)
				return
			}

			for i, entry := range payoff.Catalog {
				if i > 0 {
					output.Println()
				}
				output.Box(entry.Strategy.String(), []string{
					"Structure:  " + entry.Structure,
					"Outlook:    " + entry.Outlook,
					"Break-even: " + entry.BreakEven,
					"Risk:       " + entry.Risk,
				})
			}
			output.Println()
			output.Dim("Books no rule matches are reported as Custom, or Custom/Hedged when they hold underlyings.")
		},
	}
}
