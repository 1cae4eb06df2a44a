package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ddsjoberg/gt/domain/cohort"
	"github.com/ddsjoberg/gt/domain/core"
	"github.com/ddsjoberg/gt/domain/summary"
	"github.com/ddsjoberg/gt/internal/stats"
)

// Aggregator orchestrates the statistical engine over a variable list,
// producing the long-form summary dataset a table binds to.
type Aggregator struct {
	// MaxParallel caps concurrent per-variable computation;
	// <=1 runs sequentially.
	MaxParallel int
}

// NewAggregator creates an aggregator with bounded parallelism.
func NewAggregator(maxParallel int) *Aggregator {
	return &Aggregator{MaxParallel: maxParallel}
}

// Aggregate dispatches each variable to the categorical or continuous
// summarization path and concatenates results in variable declaration
// order. Per-variable computation may run concurrently; the output
// order never depends on scheduling. A variable without type metadata
// fails the whole call with ErrUnknownVariableType.
func (a *Aggregator) Aggregate(ctx context.Context, records []cohort.SubjectRecord, variables []cohort.Variable) ([]summary.SummaryRow, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyCohort
	}
	for _, v := range variables {
		if v.Type != cohort.TypeCategorical && v.Type != cohort.TypeContinuous {
			return nil, core.NewUnknownVariableTypeError(string(v.Key))
		}
	}

	perVariable := make([][]summary.SummaryRow, len(variables))
	g, ctx := errgroup.WithContext(ctx)
	if a.MaxParallel > 1 {
		g.SetLimit(a.MaxParallel)
	} else {
		g.SetLimit(1)
	}
	for i, v := range variables {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch v.Type {
			case cohort.TypeCategorical:
				perVariable[i] = stats.SummarizeCategorical(records, v)
			case cohort.TypeContinuous:
				perVariable[i] = stats.SummarizeContinuous(records, v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]summary.SummaryRow, 0, len(variables)*4)
	for _, vr := range perVariable {
		rows = append(rows, vr...)
	}
	return rows, nil
}

// SummarizeResponse builds one ResponseSummary per subgroup: per-arm
// event counts with exact binomial intervals, plus the odds ratio of
// the second arm against the first. The subgroup variable may be empty,
// producing a single overall line.
func (a *Aggregator) SummarizeResponse(ctx context.Context, records []cohort.SubjectRecord, responseVar cohort.Variable, subgroupVar *cohort.Variable, confidence float64) ([]summary.ResponseSummary, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyCohort
	}

	type subgroup struct {
		label   string
		records []cohort.SubjectRecord
	}
	subgroups := []subgroup{{label: "Overall", records: records}}
	if subgroupVar != nil {
		if subgroupVar.Type != cohort.TypeCategorical {
			return nil, core.NewUnknownVariableTypeError(string(subgroupVar.Key))
		}
		subgroups = subgroups[:0]
		index := make(map[string]int)
		for _, r := range records {
			val := r.Value(subgroupVar.Key)
			if val.Missing {
				continue
			}
			i, ok := index[val.Str]
			if !ok {
				i = len(subgroups)
				index[val.Str] = i
				subgroups = append(subgroups, subgroup{label: val.Str})
			}
			subgroups[i].records = append(subgroups[i].records, r)
		}
	}

	groups := cohort.Groups(records)
	out := make([]summary.ResponseSummary, len(subgroups))
	g, ctx := errgroup.WithContext(ctx)
	if a.MaxParallel > 1 {
		g.SetLimit(a.MaxParallel)
	} else {
		g.SetLimit(1)
	}
	for i, sg := range subgroups {
		i, sg := i, sg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = summarizeSubgroup(sg.label, sg.records, groups, responseVar, confidence)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// summarizeSubgroup computes one subgroup line. The odds ratio
// compares the second arm against the first; with fewer than two arms
// it stays NA.
func summarizeSubgroup(label string, records []cohort.SubjectRecord, groups []string, responseVar cohort.Variable, confidence float64) summary.ResponseSummary {
	rs := summary.ResponseSummary{
		Subgroup:  label,
		OddsRatio: summary.NA(),
		ORLow:     summary.NA(),
		ORHigh:    summary.NA(),
	}

	events := make(map[string]int, len(groups))
	totals := make(map[string]int, len(groups))
	for _, r := range records {
		val := r.Value(responseVar.Key)
		if val.Missing {
			continue
		}
		totals[r.Group]++
		if isEvent(val) {
			events[r.Group]++
		}
	}

	for _, g := range groups {
		cell := summary.ResponseCell{
			Group:  g,
			Events: float64(events[g]),
			Total:  float64(totals[g]),
			Pct:    summary.NA(),
			CILow:  summary.NA(),
			CIHigh: summary.NA(),
		}
		if totals[g] > 0 {
			cell.Pct = 100 * float64(events[g]) / float64(totals[g])
			cell.CILow, cell.CIHigh = stats.ClopperPearson(events[g], totals[g], confidence)
		}
		rs.Cells = append(rs.Cells, cell)
	}

	if len(groups) >= 2 {
		ref, cmp := groups[0], groups[1]
		rs.OddsRatio, rs.ORLow, rs.ORHigh = stats.OddsRatioCI(
			events[cmp], totals[cmp], events[ref], totals[ref], confidence)
	}
	return rs
}

// isEvent treats a positive numeric or a "Y"/"Yes"/"1" categorical
// observation as a response event.
func isEvent(v cohort.Value) bool {
	if v.Str != "" {
		return v.Str == "Y" || v.Str == "Yes" || v.Str == "1"
	}
	return v.Num > 0
}
