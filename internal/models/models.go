// Package models contains the leg and analysis types shared across the application.
package models

import "strings"

// Side represents the direction of a leg.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Sign returns +1 for a buy and -1 for a sell.
func (s Side) Sign() int {
	if s == SideSell {
		return -1
	}
	return 1
}

// Opposite returns the flipped side.
func (s Side) Opposite() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	}
	return s
}

// Valid reports whether the side is one of the known values.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// ParseSide parses "buy"/"sell" in any case. Unknown input is returned as-is
// so validation can report it.
func ParseSide(s string) Side {
	return Side(strings.ToUpper(strings.TrimSpace(s)))
}

// OptionKind distinguishes calls from puts.
type OptionKind string

const (
	Call OptionKind = "CALL"
	Put  OptionKind = "PUT"
)

// Sign returns +1 for calls and -1 for puts.
func (k OptionKind) Sign() int {
	if k == Put {
		return -1
	}
	return 1
}

// Valid reports whether the kind is a call or a put.
func (k OptionKind) Valid() bool {
	return k == Call || k == Put
}

// Label returns the display name ("Call", "Put").
func (k OptionKind) Label() string {
	switch k {
	case Call:
		return "Call"
	case Put:
		return "Put"
	}
	return string(k)
}

// Category identifies one of the three leg portfolios of a book.
type Category string

const (
	CategoryCall       Category = "CALL"
	CategoryPut        Category = "PUT"
	CategoryUnderlying Category = "UNDERLYING"
)

// Categories lists the portfolios in display order.
var Categories = []Category{CategoryCall, CategoryPut, CategoryUnderlying}

// ParseCategory parses a category name. "underlying", "stock" and "u" map
// to the underlying portfolio; "c"/"p" are accepted for calls and puts.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CALL", "CALLS", "C":
		return CategoryCall, true
	case "PUT", "PUTS", "P":
		return CategoryPut, true
	case "UNDERLYING", "UNDERLYINGS", "STOCK", "U":
		return CategoryUnderlying, true
	}
	return "", false
}

// Label returns the display name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryCall:
		return "Call"
	case CategoryPut:
		return "Put"
	case CategoryUnderlying:
		return "Underlying Contract"
	}
	return string(c)
}

// Kind maps an option category to its option kind.
func (c Category) Kind() (OptionKind, bool) {
	switch c {
	case CategoryCall:
		return Call, true
	case CategoryPut:
		return Put, true
	}
	return "", false
}
