package table

// Grid is the finalized display form of a model: ordered header rows,
// ordered body rows of finished strings, layout metadata, and the
// footnote block. It is the sole contract a display-format writer
// consumes; writers must preserve its ordering.
type Grid struct {
	// HeaderRows hold the spanner row (when any spanner exists)
	// followed by the column label row. Cell 0 is the stub header.
	HeaderRows [][]string `json:"header_rows"`

	// Body rows in model row order, group header rows interleaved.
	Body []BodyRow `json:"body"`

	// Widths and Aligns cover the stub column plus each visible data
	// column, in grid order. Width 0 means the writer decides.
	Widths []int       `json:"widths"`
	Aligns []Alignment `json:"aligns"`

	// Marks position every footnote mark; Footnotes list the block in
	// mark order.
	Marks     []Mark          `json:"marks,omitempty"`
	Footnotes []FootnoteEntry `json:"footnotes,omitempty"`
}

// BodyRow is one rendered row. A group header row carries the group
// label in cell 0 and empty data cells.
type BodyRow struct {
	Cells       []string `json:"cells"`
	Indent      int      `json:"indent,omitempty"`
	GroupHeader bool     `json:"group_header,omitempty"`
}

// Mark is a positioned footnote mark. Header marks sit on the column
// label row; body marks reference a Body index.
type Mark struct {
	Mark   string `json:"mark"`
	Col    int    `json:"col"`
	Row    int    `json:"row"`
	Header bool   `json:"header,omitempty"`
}

// FootnoteEntry is one line of the footnote block.
type FootnoteEntry struct {
	Mark string `json:"mark"`
	Text string `json:"text"`
}

// ColumnCount returns the grid width including the stub column.
func (g *Grid) ColumnCount() int {
	return len(g.Widths)
}
