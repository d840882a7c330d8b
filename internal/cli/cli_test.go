package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"option-payoff/internal/config"
	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/payoff"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default(t.TempDir())
	cfg.Logging.File = false
	cfg.Chart.Width = 30
	cfg.Chart.Height = 9
	return cfg
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(cfg, zerolog.Nop())
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	out, err := run(t, cfg, args...)
	require.NoError(t, err, out)
	return out
}

func addExampleLegs(t *testing.T, cfg *config.Config, extra ...string) {
	t.Helper()
	mustRun(t, cfg, append([]string{"leg", "add", "call", "--strike", "95", "--qty", "1", "--side", "buy", "--price", "6.25"}, extra...)...)
	mustRun(t, cfg, append([]string{"leg", "add", "put", "--strike", "105", "--qty", "2", "--side", "sell", "--price", "7.75"}, extra...)...)
}

type analysisJSON struct {
	Strategy   string    `json:"strategy"`
	BreakEvens []float64 `json:"break_even_points"`
	Profile    struct {
		Strikes []float64 `json:"strikes"`
		Slopes  []int     `json:"interval_slopes"`
		PnL     []float64 `json:"pnl_at_strike"`
	} `json:"profile"`
	Curve *struct {
		Prices []float64 `json:"prices"`
	} `json:"curve"`
}

func TestCLI_LegAddAndAnalyze(t *testing.T) {
	cfg := newTestConfig(t)
	addExampleLegs(t, cfg)

	out := mustRun(t, cfg, "analyze", "--json")
	var a analysisJSON
	require.NoError(t, json.Unmarshal([]byte(out), &a))

	assert.Equal(t, "Custom", a.Strategy)
	require.Len(t, a.BreakEvens, 1)
	assert.InDelta(t, 98.5833, a.BreakEvens[0], 1e-3)
	assert.Equal(t, []float64{95, 105}, a.Profile.Strikes)
	assert.Equal(t, []int{2, 3, 1}, a.Profile.Slopes)
	assert.InDeltaSlice(t, []float64{-10.75, 19.25}, a.Profile.PnL, 1e-9)
	require.NotNil(t, a.Curve)
	assert.Len(t, a.Curve.Prices, cfg.Analysis.ChartPoints)
}

func TestCLI_AnalyzeText(t *testing.T) {
	cfg := newTestConfig(t)
	addExampleLegs(t, cfg)
	mustRun(t, cfg, "leg", "add", "underlying", "--qty", "2", "--side", "sell", "--price", "98")

	out := mustRun(t, cfg, "analyze", "--chart")

	assert.Contains(t, out, "Strategy: Custom/Hedged")
	assert.Contains(t, out, "Break-even: 99.75, 110.25")
	assert.Contains(t, out, "Below 95")
	assert.Contains(t, out, "Above 105")
	assert.Contains(t, out, "+1 95.0 Call -6.25")
	assert.Contains(t, out, "-2 105.0 Put 7.75")
	assert.Contains(t, out, "-2 Underlying 98.00")
	assert.Contains(t, out, "Unlimited")
	assert.Contains(t, out, "Payoff at Expiry")
	assert.Contains(t, out, "█")
}

func TestCLI_AnalyzeEmptyBook(t *testing.T) {
	cfg := newTestConfig(t)
	_, err := run(t, cfg, "analyze")
	assert.ErrorIs(t, err, apperrors.ErrEmptyPortfolio)
}

func TestCLI_AnalyzeNeedsOptionLegs(t *testing.T) {
	cfg := newTestConfig(t)
	mustRun(t, cfg, "leg", "add", "underlying", "--qty", "1", "--price", "100")

	out, err := run(t, cfg, "analyze")
	assert.ErrorIs(t, err, apperrors.ErrEmptyPortfolio)
	assert.Contains(t, out, "has no option legs")
	assert.Contains(t, out, "payoff leg add")
}

func TestCLI_InvalidLegIsRejected(t *testing.T) {
	cfg := newTestConfig(t)

	_, err := run(t, cfg, "leg", "add", "call", "--strike", "0", "--price", "5")
	assert.ErrorIs(t, err, apperrors.ErrInvalidLeg)

	_, err = run(t, cfg, "leg", "add", "future", "--strike", "100", "--price", "5")
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)

	out := mustRun(t, cfg, "leg", "list")
	assert.Contains(t, out, "is empty")
}

func TestCLI_UndoSwapReset(t *testing.T) {
	cfg := newTestConfig(t)
	addExampleLegs(t, cfg)

	mustRun(t, cfg, "leg", "swap", "puts")
	var legs bookLegs
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, cfg, "leg", "list", "--json")), &legs))
	require.Len(t, legs.Puts, 1)
	assert.Equal(t, "BUY", string(legs.Puts[0].Side))

	mustRun(t, cfg, "leg", "undo", "put")
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, cfg, "leg", "list", "--json")), &legs))
	assert.Empty(t, legs.Puts)
	assert.Len(t, legs.Calls, 1)

	mustRun(t, cfg, "leg", "reset")
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, cfg, "leg", "list", "--json")), &legs))
	assert.Empty(t, legs.Calls)
}

func TestCLI_BooksAreSeparate(t *testing.T) {
	cfg := newTestConfig(t)
	addExampleLegs(t, cfg, "--book", "hedge")

	out := mustRun(t, cfg, "leg", "list")
	assert.Contains(t, out, "Book default is empty")

	out = mustRun(t, cfg, "books")
	assert.Contains(t, out, "hedge")

	mustRun(t, cfg, "books", "delete", "hedge")
	_, err := run(t, cfg, "books", "delete", "hedge")
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func TestCLI_SaveAndHistory(t *testing.T) {
	cfg := newTestConfig(t)
	mustRun(t, cfg, "leg", "add", "call", "--strike", "100", "--price", "5")
	mustRun(t, cfg, "leg", "add", "put", "--strike", "100", "--price", "5")

	mustRun(t, cfg, "analyze", "--save")

	out := mustRun(t, cfg, "history")
	assert.Contains(t, out, "Straddle")
	assert.Contains(t, out, "90.00, 110.00")

	out = mustRun(t, cfg, "history", "--strategy", "Butterfly")
	assert.Contains(t, out, "No saved analyses")
}

func TestCLI_ImportExport(t *testing.T) {
	cfg := newTestConfig(t)
	addExampleLegs(t, cfg)

	path := filepath.Join(t.TempDir(), "legs.csv")
	mustRun(t, cfg, "leg", "export", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "category,strike,quantity,side,price"))

	mustRun(t, cfg, "leg", "import", path, "--book", "copy")
	mustRun(t, cfg, "leg", "import", path, "--book", "copy", "--append")

	out := mustRun(t, cfg, "stats", "--book", "copy", "--json")
	var stats map[string]struct {
		Bought int `json:"bought"`
		Sold   int `json:"sold"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats["CALL"].Bought)
	assert.Equal(t, 4, stats["PUT"].Sold)
}

func TestCLI_Stats(t *testing.T) {
	cfg := newTestConfig(t)
	addExampleLegs(t, cfg)

	out := mustRun(t, cfg, "stats")
	assert.Contains(t, out, "+1 Long")
	assert.Contains(t, out, "-2 Short")
	assert.Contains(t, out, "$15.50")
}

func TestCLI_StrategiesAndVersion(t *testing.T) {
	cfg := newTestConfig(t)

	out := mustRun(t, cfg, "strategies")
	assert.Contains(t, out, "Straddle")
	assert.Contains(t, out, "Call Christmas Tree")

	out = mustRun(t, cfg, "version")
	assert.Contains(t, out, Version)

	out = mustRun(t, cfg, "config", "validate")
	assert.Contains(t, out, "Configuration is valid")
}

func TestConfigDirFromArgs(t *testing.T) {
	assert.Equal(t, "/tmp/a", ConfigDirFromArgs([]string{"analyze", "--config", "/tmp/a"}))
	assert.Equal(t, "/tmp/b", ConfigDirFromArgs([]string{"--config=/tmp/b", "stats"}))
	assert.Equal(t, "", ConfigDirFromArgs([]string{"analyze", "--config"}))
}

func TestDrawPayoffChart(t *testing.T) {
	var buf bytes.Buffer
	output := &Output{writer: &buf, currency: "$"}

	drawPayoffChart(output, nil, 20, 5)
	assert.Contains(t, buf.String(), "Insufficient data")

	buf.Reset()
	curve := &payoff.Curve{
		Prices: []float64{0, 1, 2, 3, 4},
		PnL:    []float64{10, 5, 0, 5, 10},
		XMin:   0,
		XMax:   4,
		YMin:   -12,
		YMax:   12,
	}
	drawPayoffChart(output, curve, 5, 5)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[0], "12.00")
	assert.Contains(t, lines[4], "-12.00")
	assert.Contains(t, lines[2], "·", "zero line sits mid-chart")
	assert.Equal(t, 2, strings.Count(lines[0], "█"), "both wings reach the top row")
	assert.Contains(t, lines[6], "0")
	assert.Contains(t, lines[6], "4")
}

func TestCLI_ErrorsAreReported(t *testing.T) {
	cfg := newTestConfig(t)

	out, err := run(t, cfg, "leg", "undo", "bond")
	require.Error(t, err)
	assert.True(t, Reported(err))
	assert.Contains(t, out, "unknown category")

	out, err = run(t, cfg, "analyze", "--json")
	require.Error(t, err)
	assert.True(t, Reported(err))
	assert.Contains(t, out, `"error"`)

	_, err = run(t, cfg, "leg", "undo")
	require.Error(t, err)
	assert.False(t, Reported(err), "argument errors are left to the caller")
}
