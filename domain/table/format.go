package table

import (
	"math"
	"strconv"
)

// FormatKind names a numeric formatting directive
type FormatKind string

const (
	FormatAuto    FormatKind = "auto"    // shortest round-trip representation
	FormatInteger FormatKind = "integer" // rounded, no decimals
	FormatDecimal FormatKind = "decimal" // fixed decimal places
	FormatPercent FormatKind = "percent" // value x 100, fixed places, trailing %
)

// FormatRule formats the numeric cells of a column.
type FormatRule struct {
	Kind     FormatKind `json:"kind"`
	Decimals int        `json:"decimals,omitempty"`
}

// Integer returns the whole-number rule.
func Integer() FormatRule {
	return FormatRule{Kind: FormatInteger}
}

// Decimal returns a fixed-decimal rule with the given places.
func Decimal(places int) FormatRule {
	return FormatRule{Kind: FormatDecimal, Decimals: places}
}

// Percent returns a percentage rule: the value is scaled by 100,
// rendered with the given places, and suffixed with %.
func Percent(places int) FormatRule {
	return FormatRule{Kind: FormatPercent, Decimals: places}
}

// Apply formats a defined (non-NA) value.
func (r FormatRule) Apply(v float64) string {
	switch r.Kind {
	case FormatInteger:
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	case FormatDecimal:
		return strconv.FormatFloat(v, 'f', r.Decimals, 64)
	case FormatPercent:
		return strconv.FormatFloat(v*100, 'f', r.Decimals, 64) + "%"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
