package summary

import (
	"math"

	"github.com/ddsjoberg/gt/domain/core"
)

// NA is the not-applicable / undefined-statistic sentinel. It is data,
// never an error: renderers substitute the table's missing-value text
// for it.
func NA() float64 {
	return math.NaN()
}

// IsNA reports whether v is the not-applicable sentinel.
func IsNA(v float64) bool {
	return math.IsNaN(v)
}

// Statistic names the numeric fields a GroupCell can carry. Data
// columns built from a summary dataset are keyed statistic+group.
type Statistic string

const (
	StatN      Statistic = "n"
	StatPct    Statistic = "pct"
	StatMean   Statistic = "mean"
	StatSD     Statistic = "sd"
	StatMedian Statistic = "median"
	StatMin    Statistic = "min"
	StatMax    Statistic = "max"
)

// AllStatistics lists every statistic in canonical column order.
var AllStatistics = []Statistic{StatN, StatPct, StatMean, StatSD, StatMedian, StatMin, StatMax}

// GroupCell holds the per-arm statistics of one summary row. Only the
// subset relevant to the variable's type is populated; the rest is NA.
type GroupCell struct {
	Group  string  `json:"group"`
	N      float64 `json:"n"`
	Pct    float64 `json:"pct"`
	Mean   float64 `json:"mean"`
	SD     float64 `json:"sd"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// EmptyGroupCell returns a cell with every statistic set to NA.
func EmptyGroupCell(group string) GroupCell {
	na := NA()
	return GroupCell{Group: group, N: na, Pct: na, Mean: na, SD: na, Median: na, Min: na, Max: na}
}

// Stat returns the named statistic value.
func (c GroupCell) Stat(s Statistic) float64 {
	switch s {
	case StatN:
		return c.N
	case StatPct:
		return c.Pct
	case StatMean:
		return c.Mean
	case StatSD:
		return c.SD
	case StatMedian:
		return c.Median
	case StatMin:
		return c.Min
	case StatMax:
		return c.Max
	}
	return NA()
}

// SummaryRow is one (variable, category-or-statistic) line of the
// long-form summary dataset: a display label, a category tag grouping
// rows under their variable, and one cell per arm in arm order.
type SummaryRow struct {
	VariableKey core.VariableKey `json:"variable_key"`
	Label       string           `json:"label"`
	Category    string           `json:"category"`
	Cells       []GroupCell      `json:"cells"`
}

// Cell returns the cell for the named arm, or an all-NA cell when the
// arm never appeared.
func (r SummaryRow) Cell(group string) GroupCell {
	for _, c := range r.Cells {
		if c.Group == group {
			return c
		}
	}
	return EmptyGroupCell(group)
}

// ResponseCell holds per-arm response counts for one subgroup line.
type ResponseCell struct {
	Group  string  `json:"group"`
	Events float64 `json:"events"`
	Total  float64 `json:"total"`
	Pct    float64 `json:"pct"`
	CILow  float64 `json:"ci_low"`  // exact binomial, percentage scale
	CIHigh float64 `json:"ci_high"` // exact binomial, percentage scale
}

// ResponseSummary is one subgroup line of an event-rate table:
// per-arm counts with exact intervals, plus the odds ratio between
// the two reference arms. OddsRatio and its bounds are NA, never an
// error, when the defining cell counts make them undefined.
type ResponseSummary struct {
	Subgroup  string         `json:"subgroup"`
	Cells     []ResponseCell `json:"cells"`
	OddsRatio float64        `json:"odds_ratio"`
	ORLow     float64        `json:"or_low"`
	ORHigh    float64        `json:"or_high"`
}
