package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatCurrency formats an amount with the given symbol and two decimals.
// Rupee amounts use Indian grouping (lakhs, crores); everything else uses
// groups of three.
func FormatCurrency(symbol string, amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart, decPart := parts[0], parts[1]

	var grouped string
	if symbol == "₹" {
		grouped = formatIndianNumber(intPart)
	} else {
		grouped = formatWesternNumber(intPart)
	}

	result := symbol + grouped + "." + decPart
	if negative && (grouped != "0" || decPart != "00") {
		result = "-" + result
	}
	return result
}

// formatIndianNumber formats an integer string in Indian numbering system.
// Indian system: 1,00,00,000 (1 crore) vs Western: 10,000,000
func formatIndianNumber(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	s = s[:n-3]

	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}

	return result
}

func formatWesternNumber(s string) string {
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

// FormatPnL formats P&L with sign.
func FormatPnL(symbol string, pnl float64) string {
	formatted := FormatCurrency(symbol, pnl)
	if pnl > 0 && formatted != FormatCurrency(symbol, 0) {
		return "+" + formatted
	}
	return formatted
}

// FormatPrice formats a strike or break-even without trailing zeros.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// FormatPrices joins prices for a single table cell.
func FormatPrices(prices []float64) string {
	if len(prices) == 0 {
		return "none"
	}
	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = fmt.Sprintf("%.2f", p)
	}
	return strings.Join(parts, ", ")
}

// FormatSlope renders an interval slope with its sign.
func FormatSlope(slope int) string {
	if slope > 0 {
		return fmt.Sprintf("+%d", slope)
	}
	return strconv.Itoa(slope)
}

// FormatShare formats a fraction as a percentage.
func FormatShare(share float64) string {
	return fmt.Sprintf("%.1f%%", share*100)
}

// FormatDateTime formats a timestamp for history listings.
func FormatDateTime(t time.Time) string {
	return t.Local().Format("02-Jan-2006 15:04:05")
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
