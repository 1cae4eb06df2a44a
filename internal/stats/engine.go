package stats

import (
	montanaflynn "github.com/montanaflynn/stats"

	"github.com/ddsjoberg/gt/domain/cohort"
	"github.com/ddsjoberg/gt/domain/summary"
)

// Canonical row labels for continuous summaries. Every continuous
// variable produces exactly these four rows, in this order.
const (
	LabelCount  = "n"
	LabelMeanSD = "Mean (±SD)"
	LabelMedian = "Median"
	LabelRange  = "Min - Max"
)

// SummarizeCategorical counts each observed category of v per arm and
// converts counts to within-arm fractions. Categories are ordered by
// first appearance in record order. An arm that never shows a category
// still gets an explicit zero cell.
func SummarizeCategorical(records []cohort.SubjectRecord, v cohort.Variable) []summary.SummaryRow {
	groups := cohort.Groups(records)
	totals := cohort.GroupTotals(records)

	categories := make([]string, 0, 8)
	counts := make(map[string]map[string]int)
	for _, r := range records {
		val := r.Value(v.Key)
		if val.Missing {
			continue
		}
		if _, seen := counts[val.Str]; !seen {
			counts[val.Str] = make(map[string]int)
			categories = append(categories, val.Str)
		}
		counts[val.Str][r.Group]++
	}

	rows := make([]summary.SummaryRow, 0, len(categories))
	for _, cat := range categories {
		row := summary.SummaryRow{
			VariableKey: v.Key,
			Label:       cat,
			Category:    v.CategoryTag(),
			Cells:       make([]summary.GroupCell, 0, len(groups)),
		}
		for _, g := range groups {
			cell := summary.EmptyGroupCell(g)
			n := counts[cat][g]
			cell.N = float64(n)
			cell.Pct = float64(n) / float64(totals[g])
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

// SummarizeContinuous computes per-arm descriptive statistics for v,
// ignoring missing observations, and emits the four canonical rows
// (count, mean with sample SD, median, min-max range). An arm with no
// non-missing observations reports n=0 and NA for everything else.
func SummarizeContinuous(records []cohort.SubjectRecord, v cohort.Variable) []summary.SummaryRow {
	groups := cohort.Groups(records)

	observed := make(map[string][]float64, len(groups))
	for _, r := range records {
		val := r.Value(v.Key)
		if val.Missing {
			continue
		}
		observed[r.Group] = append(observed[r.Group], val.Num)
	}

	tag := v.CategoryTag()
	rows := []summary.SummaryRow{
		{VariableKey: v.Key, Label: LabelCount, Category: tag},
		{VariableKey: v.Key, Label: LabelMeanSD, Category: tag},
		{VariableKey: v.Key, Label: LabelMedian, Category: tag},
		{VariableKey: v.Key, Label: LabelRange, Category: tag},
	}

	for _, g := range groups {
		data := observed[g]

		count := summary.EmptyGroupCell(g)
		count.N = float64(len(data))
		meanSD := summary.EmptyGroupCell(g)
		median := summary.EmptyGroupCell(g)
		rng := summary.EmptyGroupCell(g)

		if len(data) > 0 {
			meanSD.Mean, _ = montanaflynn.Mean(data)
			meanSD.SD, _ = montanaflynn.StandardDeviationSample(data)
			median.Median, _ = montanaflynn.Median(data)
			rng.Min, _ = montanaflynn.Min(data)
			rng.Max, _ = montanaflynn.Max(data)
			if len(data) < 2 {
				// Sample SD needs at least two observations.
				meanSD.SD = summary.NA()
			}
		}

		rows[0].Cells = append(rows[0].Cells, count)
		rows[1].Cells = append(rows[1].Cells, meanSD)
		rows[2].Cells = append(rows[2].Cells, median)
		rows[3].Cells = append(rows[3].Cells, rng)
	}
	return rows
}
