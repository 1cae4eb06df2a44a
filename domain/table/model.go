package table

import (
	"fmt"

	"github.com/ddsjoberg/gt/domain/summary"
)

// Alignment of a rendered column
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// MarkStyle selects the footnote mark alphabet
type MarkStyle string

const (
	MarksNumeric    MarkStyle = "numeric"    // 1, 2, 3, ...
	MarksAlphabetic MarkStyle = "alphabetic" // a, b, c, ...
)

// DefaultMissingText substitutes not-applicable values in rendered cells.
const DefaultMissingText = "—"

// Column is one data column of the model. IDs are unique and stable
// across transformations; a column hidden by a merge keeps its id and
// its underlying values.
type Column struct {
	ID      string    `json:"id"`
	Header  string    `json:"header"`
	Width   int       `json:"width,omitempty"` // 0 = writer decides
	Align   Alignment `json:"align,omitempty"`
	Spanner string    `json:"spanner,omitempty"`
	Hidden  bool      `json:"hidden,omitempty"`
}

// Row is one body row: a stub label, an optional row-group tag, and an
// indent level.
type Row struct {
	ID     string `json:"id"`
	Stub   string `json:"stub"`
	Group  string `json:"group,omitempty"`
	Indent int    `json:"indent,omitempty"`
}

// DataRow is one long-form input line for Bind: a stub label, a
// row-group tag, and named numeric cells. Absent cells read as
// not-applicable.
type DataRow struct {
	Stub  string
	Group string
	Cells map[string]float64
}

// formatDirective is one ApplyFormat call, selector already resolved.
type formatDirective struct {
	columns map[string]bool
	filter  RowFilter
	rule    FormatRule
}

// mergeRule is one MergeColumns call. The first source is the output
// slot; the rest are hidden at declaration time.
type mergeRule struct {
	sources []string
	pattern string
	filter  RowFilter
}

// Footnote targets a column header (RowID empty) or a body cell.
type Footnote struct {
	ColumnID string `json:"column_id"`
	RowID    string `json:"row_id,omitempty"`
	Text     string `json:"text"`
}

// Model is the abstract table: bound values plus the ordered
// transformation state the renderer applies. It has a single logical
// owner; transformations mutate it sequentially and rendering never
// mutates it at all.
type Model struct {
	columns []Column
	rows    []Row
	data    map[string]map[string]float64 // row id -> column id -> value

	formats   []formatDirective
	merges    []mergeRule
	footnotes []Footnote

	// consumedBy maps a hidden column to the merge output slot that
	// consumed it, so footnotes targeting it still land somewhere.
	consumedBy map[string]string

	stubHeader  string
	stubWidth   int
	missingText string
	markStyle   MarkStyle
}

// Bind initializes a model from long-form data rows. columnOrder fixes
// the data column order; every cell key must appear in it.
func Bind(dataRows []DataRow, columnOrder []string) (*Model, error) {
	if len(dataRows) == 0 {
		return nil, fmt.Errorf("bind: no data rows")
	}
	known := make(map[string]bool, len(columnOrder))
	for _, id := range columnOrder {
		if id == "" {
			return nil, fmt.Errorf("bind: empty column id")
		}
		if known[id] {
			return nil, fmt.Errorf("bind: duplicate column id %q", id)
		}
		known[id] = true
	}

	m := &Model{
		columns:     make([]Column, 0, len(columnOrder)),
		rows:        make([]Row, 0, len(dataRows)),
		data:        make(map[string]map[string]float64, len(dataRows)),
		consumedBy:  make(map[string]string),
		missingText: DefaultMissingText,
		markStyle:   MarksNumeric,
	}
	for _, id := range columnOrder {
		m.columns = append(m.columns, Column{ID: id, Header: id})
	}
	for i, dr := range dataRows {
		id := fmt.Sprintf("r%d", i+1)
		m.rows = append(m.rows, Row{ID: id, Stub: dr.Stub, Group: dr.Group})
		cells := make(map[string]float64, len(dr.Cells))
		for col, v := range dr.Cells {
			if !known[col] {
				return nil, fmt.Errorf("bind: row %d references undeclared column %q", i+1, col)
			}
			cells[col] = v
		}
		m.data[id] = cells
	}
	return m, nil
}

// BindSummary flattens a summary dataset into the model: row stub =
// summary label, row group = category tag, one data column per
// (statistic, arm) pair that carries at least one value, named
// statistic_arm, ordered statistic-major in arm order.
func BindSummary(rows []summary.SummaryRow) (*Model, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("bind: no summary rows")
	}

	groups := make([]string, 0, 4)
	seenGroup := make(map[string]bool)
	for _, r := range rows {
		for _, c := range r.Cells {
			if !seenGroup[c.Group] {
				seenGroup[c.Group] = true
				groups = append(groups, c.Group)
			}
		}
	}

	populated := make(map[string]bool)
	for _, r := range rows {
		for _, c := range r.Cells {
			for _, s := range summary.AllStatistics {
				if !summary.IsNA(c.Stat(s)) {
					populated[ColumnID(s, c.Group)] = true
				}
			}
		}
	}

	order := make([]string, 0, len(populated))
	for _, g := range groups {
		for _, s := range summary.AllStatistics {
			if populated[ColumnID(s, g)] {
				order = append(order, ColumnID(s, g))
			}
		}
	}

	dataRows := make([]DataRow, 0, len(rows))
	for _, r := range rows {
		dr := DataRow{Stub: r.Label, Group: r.Category, Cells: make(map[string]float64)}
		for _, c := range r.Cells {
			for _, s := range summary.AllStatistics {
				id := ColumnID(s, c.Group)
				if populated[id] && !summary.IsNA(c.Stat(s)) {
					dr.Cells[id] = c.Stat(s)
				}
			}
		}
		dataRows = append(dataRows, dr)
	}
	return Bind(dataRows, order)
}

// ColumnID names the data column of one (statistic, arm) pair.
func ColumnID(stat summary.Statistic, group string) string {
	return string(stat) + "_" + group
}

// Columns returns a copy of the column slice, hidden columns included.
func (m *Model) Columns() []Column {
	out := make([]Column, len(m.columns))
	copy(out, m.columns)
	return out
}

// Rows returns a copy of the row slice.
func (m *Model) Rows() []Row {
	out := make([]Row, len(m.rows))
	copy(out, m.rows)
	return out
}

// RowIDs returns the ids of rows accepted by filter, in row order.
func (m *Model) RowIDs(filter RowFilter) []string {
	ids := make([]string, 0, len(m.rows))
	for _, r := range m.rows {
		if filter == nil || filter(r) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Value returns the underlying cell value; absent cells are NA.
func (m *Model) Value(rowID, columnID string) float64 {
	cells, ok := m.data[rowID]
	if !ok {
		return summary.NA()
	}
	v, ok := cells[columnID]
	if !ok {
		return summary.NA()
	}
	return v
}

func (m *Model) column(id string) *Column {
	for i := range m.columns {
		if m.columns[i].ID == id {
			return &m.columns[i]
		}
	}
	return nil
}

func (m *Model) row(id string) *Row {
	for i := range m.rows {
		if m.rows[i].ID == id {
			return &m.rows[i]
		}
	}
	return nil
}
