package table

import (
	"reflect"
	"testing"
)

func TestRenderMergeSubstitutesFormattedStrings(t *testing.T) {
	m, err := Bind([]DataRow{
		{Stub: "Responders", Cells: map[string]float64{"events": 3, "total": 10, "pct": 30.0}},
	}, []string{"events", "total", "pct"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := m.ApplyFormat(ColumnsNamed("events", "total"), nil, Integer()); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := m.MergeColumns([]string{"events", "total"}, "{1}/{2}", nil); err != nil {
		t.Fatalf("merge: %v", err)
	}

	g := m.Render()
	body := dataRows(g)
	if len(body) != 1 {
		t.Fatalf("expected 1 body row, got %d", len(body))
	}
	// Columns: stub, merged events slot, pct. total is hidden.
	if got := body[0].Cells[1]; got != "3/10" {
		t.Errorf("merged cell = %q, want %q", got, "3/10")
	}
	if len(body[0].Cells) != 3 {
		t.Errorf("hidden source column should not render, got %d cells", len(body[0].Cells))
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	m := responderModel(t)

	first := m.Render()
	second := m.Render()
	if !reflect.DeepEqual(first, second) {
		t.Error("re-rendering an unmodified model should yield an identical grid")
	}
}

func TestRenderLastMergeTargetingCellWins(t *testing.T) {
	m, err := Bind([]DataRow{
		{Stub: "x", Cells: map[string]float64{"a": 1, "b": 2, "c": 3}},
	}, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := m.ApplyFormat(AllColumns(), nil, Integer()); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := m.MergeColumns([]string{"a", "b"}, "{1}/{2}", nil); err != nil {
		t.Fatalf("merge 1: %v", err)
	}
	if err := m.MergeColumns([]string{"a", "c"}, "{1} ({2})", nil); err != nil {
		t.Fatalf("merge 2: %v", err)
	}

	g := m.Render()
	body := dataRows(g)
	// Both merges target slot a; the second declaration wins. Its {1}
	// substitutes a's pre-merge formatted string, not the first merge's
	// output.
	if got := body[0].Cells[1]; got != "1 (3)" {
		t.Errorf("cell = %q, want %q", got, "1 (3)")
	}
}

func TestRenderMergeRespectsRowFilter(t *testing.T) {
	m, err := Bind([]DataRow{
		{Stub: "merged", Cells: map[string]float64{"a": 1, "b": 2}},
		{Stub: "plain", Cells: map[string]float64{"a": 3, "b": 4}},
	}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := m.ApplyFormat(AllColumns(), nil, Integer()); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := m.MergeColumns([]string{"a", "b"}, "{1}/{2}", RowsLabeled("merged")); err != nil {
		t.Fatalf("merge: %v", err)
	}

	body := dataRows(m.Render())
	if got := body[0].Cells[1]; got != "1/2" {
		t.Errorf("filtered-in row = %q, want %q", got, "1/2")
	}
	// The column is hidden table-wide, so the filtered-out row shows
	// the slot's own formatted value.
	if got := body[1].Cells[1]; got != "3" {
		t.Errorf("filtered-out row = %q, want %q", got, "3")
	}
}

func TestRenderMissingSubstitution(t *testing.T) {
	m, err := Bind([]DataRow{
		{Stub: "x", Cells: map[string]float64{"a": 1}},
	}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	body := dataRows(m.Render())
	if got := body[0].Cells[2]; got != DefaultMissingText {
		t.Errorf("missing cell = %q, want %q", got, DefaultMissingText)
	}

	m.SetMissingText("NA")
	body = dataRows(m.Render())
	if got := body[0].Cells[2]; got != "NA" {
		t.Errorf("missing cell after SetMissingText = %q, want %q", got, "NA")
	}
}

func TestRenderLaterFormatOverridesEarlier(t *testing.T) {
	m, err := Bind([]DataRow{
		{Stub: "x", Cells: map[string]float64{"a": 0.3456}},
	}, []string{"a"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := m.ApplyFormat(ColumnsNamed("a"), nil, Decimal(3)); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := m.ApplyFormat(ColumnsNamed("a"), nil, Percent(1)); err != nil {
		t.Fatalf("format: %v", err)
	}

	body := dataRows(m.Render())
	if got := body[0].Cells[1]; got != "34.6%" {
		t.Errorf("cell = %q, want %q", got, "34.6%")
	}
}

func TestRenderSpannerHeaderRow(t *testing.T) {
	m, err := Bind([]DataRow{
		{Stub: "x", Cells: map[string]float64{"a": 1, "b": 2, "c": 3}},
	}, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	m.SetStubHeader("Characteristic")
	if err := m.AddSpanner("Treatment", []string{"b", "c"}); err != nil {
		t.Fatalf("spanner: %v", err)
	}

	g := m.Render()
	if len(g.HeaderRows) != 2 {
		t.Fatalf("expected spanner row + label row, got %d header rows", len(g.HeaderRows))
	}
	wantSpanners := []string{"", "", "Treatment", "Treatment"}
	if !reflect.DeepEqual(g.HeaderRows[0], wantSpanners) {
		t.Errorf("spanner row = %v, want %v", g.HeaderRows[0], wantSpanners)
	}
	if g.HeaderRows[1][0] != "Characteristic" {
		t.Errorf("stub header = %q, want %q", g.HeaderRows[1][0], "Characteristic")
	}
}

func TestRenderNoSpannerRowWithoutSpanners(t *testing.T) {
	m, err := Bind([]DataRow{
		{Stub: "x", Cells: map[string]float64{"a": 1}},
	}, []string{"a"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if got := len(m.Render().HeaderRows); got != 1 {
		t.Errorf("expected the label row only, got %d header rows", got)
	}
}

func TestRenderGroupHeaderRows(t *testing.T) {
	m, err := Bind([]DataRow{
		{Stub: "Female", Group: "Sex", Cells: map[string]float64{"a": 1}},
		{Stub: "Male", Group: "Sex", Cells: map[string]float64{"a": 2}},
		{Stub: "Mean", Group: "Age", Cells: map[string]float64{"a": 3}},
	}, []string{"a"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	g := m.Render()
	if len(g.Body) != 5 {
		t.Fatalf("expected 2 group headers + 3 data rows, got %d", len(g.Body))
	}
	if !g.Body[0].GroupHeader || g.Body[0].Cells[0] != "Sex" {
		t.Errorf("body[0] should be the Sex group header, got %+v", g.Body[0])
	}
	if g.Body[1].GroupHeader || g.Body[2].GroupHeader {
		t.Error("consecutive rows of one group should not repeat the header")
	}
	if !g.Body[3].GroupHeader || g.Body[3].Cells[0] != "Age" {
		t.Errorf("body[3] should be the Age group header, got %+v", g.Body[3])
	}
}

func TestRenderIndentAndAlignment(t *testing.T) {
	m, err := Bind([]DataRow{
		{Stub: "Female", Cells: map[string]float64{"a": 1}},
	}, []string{"a"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := m.IndentRows([]string{"r1"}, 2); err != nil {
		t.Fatalf("indent: %v", err)
	}
	if err := m.SetAlignment(ColumnsNamed("a"), AlignRight); err != nil {
		t.Fatalf("align: %v", err)
	}
	m.SetStubWidth(24)
	if err := m.SetWidth("a", 12); err != nil {
		t.Fatalf("width: %v", err)
	}

	g := m.Render()
	if g.Body[0].Indent != 2 {
		t.Errorf("indent = %d, want 2", g.Body[0].Indent)
	}
	if !reflect.DeepEqual(g.Aligns, []Alignment{AlignLeft, AlignRight}) {
		t.Errorf("aligns = %v", g.Aligns)
	}
	if !reflect.DeepEqual(g.Widths, []int{24, 12}) {
		t.Errorf("widths = %v", g.Widths)
	}
}

func TestRenderFootnoteMarksFollowDeclarationOrder(t *testing.T) {
	m, err := Bind([]DataRow{
		{Stub: "x", Cells: map[string]float64{"a": 1, "b": 2}},
	}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := m.AddFootnote(Footnote{ColumnID: "b"}, "second column"); err != nil {
		t.Fatalf("footnote: %v", err)
	}
	if err := m.AddFootnote(Footnote{ColumnID: "a", RowID: "r1"}, "a cell"); err != nil {
		t.Fatalf("footnote: %v", err)
	}

	g := m.Render()
	if len(g.Footnotes) != 2 {
		t.Fatalf("expected 2 footnote entries, got %d", len(g.Footnotes))
	}
	if g.Footnotes[0].Mark != "1" || g.Footnotes[0].Text != "second column" {
		t.Errorf("footnote 1 = %+v", g.Footnotes[0])
	}
	if g.Footnotes[1].Mark != "2" || g.Footnotes[1].Text != "a cell" {
		t.Errorf("footnote 2 = %+v", g.Footnotes[1])
	}

	if len(g.Marks) != 2 {
		t.Fatalf("expected 2 positioned marks, got %d", len(g.Marks))
	}
	if !g.Marks[0].Header || g.Marks[0].Col != 2 {
		t.Errorf("mark 1 should sit on the b header, got %+v", g.Marks[0])
	}
	if g.Marks[1].Header || g.Marks[1].Col != 1 || g.Marks[1].Row != 0 {
		t.Errorf("mark 2 should sit on the r1/a body cell, got %+v", g.Marks[1])
	}

	m.SetMarkStyle(MarksAlphabetic)
	g = m.Render()
	if g.Footnotes[0].Mark != "a" || g.Footnotes[1].Mark != "b" {
		t.Errorf("alphabetic marks = %q, %q, want a, b",
			g.Footnotes[0].Mark, g.Footnotes[1].Mark)
	}
}

func TestRenderFootnoteOnMergedColumnFollowsConsumer(t *testing.T) {
	m, err := Bind([]DataRow{
		{Stub: "x", Cells: map[string]float64{"a": 1, "b": 2}},
	}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := m.MergeColumns([]string{"a", "b"}, "{1}/{2}", nil); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if err := m.AddFootnote(Footnote{ColumnID: "b"}, "hidden column note"); err != nil {
		t.Fatalf("footnote: %v", err)
	}

	g := m.Render()
	if len(g.Marks) != 1 {
		t.Fatalf("expected 1 mark, got %d", len(g.Marks))
	}
	// b was consumed by a, so the mark lands on a's grid column.
	if g.Marks[0].Col != 1 || !g.Marks[0].Header {
		t.Errorf("mark = %+v, want header mark on column 1", g.Marks[0])
	}
}

// responderModel builds a small two-arm model with formats, a merge, a
// spanner, and a footnote, for whole-pipeline assertions.
func responderModel(t *testing.T) *Model {
	t.Helper()
	m, err := Bind([]DataRow{
		{Stub: "Responders", Group: "Response", Cells: map[string]float64{
			"events_A": 3, "total_A": 10, "events_B": 7, "total_B": 10,
		}},
	}, []string{"events_A", "total_A", "events_B", "total_B"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := m.ApplyFormat(AllColumns(), nil, Integer()); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := m.MergeColumns([]string{"events_A", "total_A"}, "{1}/{2}", nil); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if err := m.MergeColumns([]string{"events_B", "total_B"}, "{1}/{2}", nil); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if err := m.AddSpanner("Arm A", []string{"events_A"}); err != nil {
		t.Fatalf("spanner: %v", err)
	}
	if err := m.AddFootnote(Footnote{ColumnID: "events_A"}, "responders/total"); err != nil {
		t.Fatalf("footnote: %v", err)
	}
	return m
}

// dataRows filters group header rows out of a grid body.
func dataRows(g *Grid) []BodyRow {
	out := make([]BodyRow, 0, len(g.Body))
	for _, r := range g.Body {
		if !r.GroupHeader {
			out = append(out, r)
		}
	}
	return out
}
