package cli

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		symbol string
		amount float64
		want   string
	}{
		{"$", 0, "$0.00"},
		{"$", 6.25, "$6.25"},
		{"$", -4.75, "-$4.75"},
		{"$", 1234567.891, "$1,234,567.89"},
		{"₹", 1234567.891, "₹12,34,567.89"},
		{"₹", 10000000, "₹1,00,00,000.00"},
		{"₹", -999, "-₹999.00"},
		{"$", -0.001, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.symbol, tt.amount))
		})
	}
}

func TestFormatPnL(t *testing.T) {
	assert.Equal(t, "+$19.25", FormatPnL("$", 19.25))
	assert.Equal(t, "-$10.75", FormatPnL("$", -10.75))
	assert.Equal(t, "$0.00", FormatPnL("$", 0))
	assert.Equal(t, "$0.00", FormatPnL("$", 0.001))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "98.5", FormatPrice(98.5))
	assert.Equal(t, "100", FormatPrice(100))
	assert.Equal(t, "none", FormatPrices(nil))
	assert.Equal(t, "93.00, 107.00", FormatPrices([]float64{93, 107}))
	assert.Equal(t, "+2", FormatSlope(2))
	assert.Equal(t, "0", FormatSlope(0))
	assert.Equal(t, "-1", FormatSlope(-1))
	assert.Equal(t, "37.5%", FormatShare(0.375))
	assert.Equal(t, "Custom/...", TruncateString("Custom/Hedged", 10))
	assert.Equal(t, "Straddle", TruncateString("Straddle", 10))
	assert.Contains(t, FormatDateTime(time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)), "18-Oct-2026")
}

func parseCurrency(s, symbol string) float64 {
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, symbol)
	s = strings.ReplaceAll(s, ",", "")
	v, _ := strconv.ParseFloat(s, 64)
	if negative {
		return -v
	}
	return v
}

// Property: currency strings carry the symbol, two decimals and the grouping
// of their numbering system, and parse back to the rounded amount.
func TestProperty_CurrencyFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	grouping := map[string]*regexp.Regexp{
		"₹": regexp.MustCompile(`^(\d{1,2},)*\d{1,3}$`),
		"$": regexp.MustCompile(`^\d{1,3}(,\d{3})*$`),
	}

	for symbol, pattern := range grouping {
		symbol, pattern := symbol, pattern

		properties.Property(symbol+" format is well formed", prop.ForAll(
			func(amount float64) bool {
				formatted := FormatCurrency(symbol, amount)

				body := strings.TrimPrefix(formatted, "-")
				if !strings.HasPrefix(body, symbol) {
					t.Logf("missing %s prefix: %s", symbol, formatted)
					return false
				}
				parts := strings.Split(strings.TrimPrefix(body, symbol), ".")
				if len(parts) != 2 || len(parts[1]) != 2 {
					t.Logf("expected two decimals: %s", formatted)
					return false
				}
				if !pattern.MatchString(parts[0]) {
					t.Logf("bad grouping: %s", formatted)
					return false
				}
				return true
			},
			gen.Float64Range(-1e12, 1e12),
		))

		properties.Property(symbol+" format preserves value", prop.ForAll(
			func(amount float64) bool {
				parsed := parseCurrency(FormatCurrency(symbol, amount), symbol)
				return math.Abs(parsed-math.Round(amount*100)/100) <= 0.01
			},
			gen.Float64Range(-1e9, 1e9),
		))
	}

	properties.Property("FormatPnL signs non-zero amounts", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatPnL("$", amount)
			switch {
			case FormatCurrency("$", amount) == "$0.00":
				return formatted == "$0.00"
			case amount > 0:
				return strings.HasPrefix(formatted, "+$")
			default:
				return strings.HasPrefix(formatted, "-$")
			}
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t)
}
