package app

import (
	"context"
	"fmt"

	"github.com/ddsjoberg/gt/domain/cohort"
	"github.com/ddsjoberg/gt/domain/summary"
	"github.com/ddsjoberg/gt/domain/table"
)

// TableService assembles publication-ready table models from a cohort,
// using the aggregator for the statistics and the table transformation
// primitives for layout.
type TableService struct {
	agg *Aggregator
}

// NewTableService creates a table service.
func NewTableService(agg *Aggregator) *TableService {
	return &TableService{agg: agg}
}

// DemographicRequest describes a demographic summary table: which
// variables to summarize over which records.
type DemographicRequest struct {
	Records   []cohort.SubjectRecord
	Variables []cohort.Variable
	Spanner   string // header spanner over the arm columns, optional
	MarkStyle table.MarkStyle
}

// BuildDemographicTable aggregates the requested variables and shapes
// the summary into one display column per arm: category rows render
// "n (pct)", continuous rows the canonical mean/median/range strings.
func (s *TableService) BuildDemographicTable(ctx context.Context, req DemographicRequest) (*table.Model, error) {
	rows, err := s.agg.Aggregate(ctx, req.Records, req.Variables)
	if err != nil {
		return nil, err
	}

	m, err := table.BindSummary(rows)
	if err != nil {
		return nil, err
	}
	if req.MarkStyle != "" {
		m.SetMarkStyle(req.MarkStyle)
	}
	m.SetStubHeader("Characteristic")

	if err := m.ApplyFormat(table.ColumnsWithPrefix("n_"), nil, table.Integer()); err != nil {
		return nil, err
	}
	if err := m.ApplyFormat(table.ColumnsWithPrefix("pct_"), nil, table.Percent(1)); err != nil {
		return nil, err
	}
	for _, prefix := range []string{"mean_", "sd_", "median_"} {
		if err := m.ApplyFormat(table.ColumnsWithPrefix(prefix), nil, table.Decimal(1)); err != nil {
			return nil, err
		}
	}
	for _, prefix := range []string{"min_", "max_"} {
		if err := m.ApplyFormat(table.ColumnsWithPrefix(prefix), nil, table.Integer()); err != nil {
			return nil, err
		}
	}

	// Row sets by the statistic they carry; bind assigns row ids in
	// summary row order.
	modelRows := m.Rows()
	categoryRows := make(map[string]bool)
	meanRows := make(map[string]bool)
	medianRows := make(map[string]bool)
	rangeRows := make(map[string]bool)
	for i, sr := range rows {
		id := modelRows[i].ID
		if len(sr.Cells) == 0 {
			continue
		}
		switch {
		case anyDefined(sr, summary.StatPct):
			categoryRows[id] = true
		case anyDefined(sr, summary.StatMean):
			meanRows[id] = true
		case anyDefined(sr, summary.StatMedian):
			medianRows[id] = true
		case anyDefined(sr, summary.StatMin):
			rangeRows[id] = true
		}
	}
	inSet := func(set map[string]bool) table.RowFilter {
		return table.RowsWhere(func(r table.Row) bool { return set[r.ID] })
	}

	groups := groupOrder(rows)
	totals := cohort.GroupTotals(req.Records)
	have := make(map[string]bool)
	for _, c := range m.Columns() {
		have[c.ID] = true
	}

	display := make([]string, 0, len(groups))
	relabel := make(map[string]string, len(groups))
	for _, g := range groups {
		nCol := table.ColumnID(summary.StatN, g)
		if !have[nCol] {
			continue
		}
		display = append(display, nCol)
		relabel[nCol] = fmt.Sprintf("%s, N = %d", g, totals[g])

		if have[table.ColumnID(summary.StatPct, g)] && len(categoryRows) > 0 {
			sources := []string{nCol, table.ColumnID(summary.StatPct, g)}
			if err := m.MergeColumns(sources, "{1} ({2})", inSet(categoryRows)); err != nil {
				return nil, err
			}
		}
		if have[table.ColumnID(summary.StatMean, g)] && len(meanRows) > 0 {
			sources := []string{nCol, table.ColumnID(summary.StatMean, g), table.ColumnID(summary.StatSD, g)}
			if err := m.MergeColumns(sources, "{2} (±{3})", inSet(meanRows)); err != nil {
				return nil, err
			}
		}
		if have[table.ColumnID(summary.StatMedian, g)] && len(medianRows) > 0 {
			sources := []string{nCol, table.ColumnID(summary.StatMedian, g)}
			if err := m.MergeColumns(sources, "{2}", inSet(medianRows)); err != nil {
				return nil, err
			}
		}
		if have[table.ColumnID(summary.StatMin, g)] && len(rangeRows) > 0 {
			sources := []string{nCol, table.ColumnID(summary.StatMin, g), table.ColumnID(summary.StatMax, g)}
			if err := m.MergeColumns(sources, "{2} - {3}", inSet(rangeRows)); err != nil {
				return nil, err
			}
		}
	}

	if err := m.RelabelColumns(relabel); err != nil {
		return nil, err
	}
	if req.Spanner != "" && len(display) > 0 {
		if err := m.AddSpanner(req.Spanner, display); err != nil {
			return nil, err
		}
	}
	if err := m.IndentRows(m.RowIDs(nil), 1); err != nil {
		return nil, err
	}
	if len(display) > 0 {
		loc := table.Footnote{ColumnID: display[0]}
		if err := m.AddFootnote(loc, "n (%); Mean (±SD); Median; Min - Max"); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ResponseRequest describes an event-rate / odds-ratio table.
type ResponseRequest struct {
	Records     []cohort.SubjectRecord
	ResponseVar cohort.Variable
	SubgroupVar *cohort.Variable // nil = single overall line
	Confidence  float64
	MarkStyle   table.MarkStyle
}

// BuildResponseTable summarizes response rates per subgroup and arm,
// with exact binomial intervals and the odds ratio of the second arm
// against the first.
func (s *TableService) BuildResponseTable(ctx context.Context, req ResponseRequest) (*table.Model, error) {
	summaries, err := s.agg.SummarizeResponse(ctx, req.Records, req.ResponseVar, req.SubgroupVar, req.Confidence)
	if err != nil {
		return nil, err
	}
	groups := cohort.Groups(req.Records)

	columns := make([]string, 0, 5*len(groups)+3)
	for _, g := range groups {
		columns = append(columns,
			"events_"+g, "total_"+g, "pct_"+g, "ci_low_"+g, "ci_high_"+g)
	}
	columns = append(columns, "or", "or_low", "or_high")

	dataRows := make([]table.DataRow, 0, len(summaries))
	for _, rs := range summaries {
		dr := table.DataRow{Stub: rs.Subgroup, Cells: make(map[string]float64)}
		for _, c := range rs.Cells {
			dr.Cells["events_"+c.Group] = c.Events
			dr.Cells["total_"+c.Group] = c.Total
			dr.Cells["pct_"+c.Group] = c.Pct
			dr.Cells["ci_low_"+c.Group] = c.CILow
			dr.Cells["ci_high_"+c.Group] = c.CIHigh
		}
		dr.Cells["or"] = rs.OddsRatio
		dr.Cells["or_low"] = rs.ORLow
		dr.Cells["or_high"] = rs.ORHigh
		dataRows = append(dataRows, dr)
	}

	m, err := table.Bind(dataRows, columns)
	if err != nil {
		return nil, err
	}
	if req.MarkStyle != "" {
		m.SetMarkStyle(req.MarkStyle)
	}
	m.SetStubHeader("Subgroup")

	if err := m.ApplyFormat(table.ColumnsWithPrefix("events_"), nil, table.Integer()); err != nil {
		return nil, err
	}
	if err := m.ApplyFormat(table.ColumnsWithPrefix("total_"), nil, table.Integer()); err != nil {
		return nil, err
	}
	for _, prefix := range []string{"pct_", "ci_low_", "ci_high_"} {
		if err := m.ApplyFormat(table.ColumnsWithPrefix(prefix), nil, table.Decimal(1)); err != nil {
			return nil, err
		}
	}
	if err := m.ApplyFormat(table.ColumnsNamed("or", "or_low", "or_high"), nil, table.Decimal(2)); err != nil {
		return nil, err
	}

	relabel := map[string]string{"or": "Odds Ratio", "or_low": "95% CI"}
	for _, g := range groups {
		if err := m.MergeColumns([]string{"events_" + g, "total_" + g, "pct_" + g}, "{1}/{2} ({3}%)", nil); err != nil {
			return nil, err
		}
		if err := m.MergeColumns([]string{"ci_low_" + g, "ci_high_" + g}, "{1}, {2}", nil); err != nil {
			return nil, err
		}
		relabel["events_"+g] = "n/N (%)"
		relabel["ci_low_"+g] = "95% CI"
		if err := m.AddSpanner(g, []string{"events_" + g, "ci_low_" + g}); err != nil {
			return nil, err
		}
	}
	if err := m.MergeColumns([]string{"or_low", "or_high"}, "{1}, {2}", nil); err != nil {
		return nil, err
	}
	if len(groups) >= 2 {
		label := fmt.Sprintf("%s vs %s", groups[1], groups[0])
		if err := m.AddSpanner(label, []string{"or", "or_low"}); err != nil {
			return nil, err
		}
	}
	if err := m.RelabelColumns(relabel); err != nil {
		return nil, err
	}

	if len(groups) > 0 {
		loc := table.Footnote{ColumnID: "ci_low_" + groups[0]}
		if err := m.AddFootnote(loc, "Exact binomial (Clopper-Pearson) confidence interval"); err != nil {
			return nil, err
		}
	}
	if err := m.AddFootnote(table.Footnote{ColumnID: "or"}, "Wald interval on the log-odds scale"); err != nil {
		return nil, err
	}
	return m, nil
}

// anyDefined reports whether any arm cell of sr carries the statistic.
func anyDefined(sr summary.SummaryRow, stat summary.Statistic) bool {
	for _, c := range sr.Cells {
		if !summary.IsNA(c.Stat(stat)) {
			return true
		}
	}
	return false
}

// groupOrder returns the arm order of a summary dataset.
func groupOrder(rows []summary.SummaryRow) []string {
	seen := make(map[string]bool)
	groups := make([]string, 0, 4)
	for _, r := range rows {
		for _, c := range r.Cells {
			if !seen[c.Group] {
				seen[c.Group] = true
				groups = append(groups, c.Group)
			}
		}
	}
	return groups
}
