package table

import (
	"strconv"

	"github.com/ddsjoberg/gt/domain/summary"
)

// Render applies format rules, the missing-value substitution, and
// merge patterns to the model's underlying values and produces the
// final display grid. Rendering is read-only on the model and
// idempotent: re-rendering an unmodified model yields a byte-identical
// grid.
func (m *Model) Render() *Grid {
	formatted := make(map[string]map[string]string, len(m.rows))
	for _, r := range m.rows {
		cells := make(map[string]string, len(m.columns))
		for _, c := range m.columns {
			cells[c.ID] = m.formatCell(r, c.ID)
		}
		formatted[r.ID] = cells
	}

	// Merge patterns consume the pre-merge formatted strings, in
	// declaration order; the last merge targeting a cell wins.
	display := make(map[string]map[string]string, len(m.rows))
	for rowID, cells := range formatted {
		out := make(map[string]string, len(cells))
		for colID, s := range cells {
			out[colID] = s
		}
		display[rowID] = out
	}
	for _, mr := range m.merges {
		for _, r := range m.rows {
			if mr.filter != nil && !mr.filter(r) {
				continue
			}
			display[r.ID][mr.sources[0]] = substitute(mr.pattern, mr.sources, formatted[r.ID])
		}
	}

	visible := make([]Column, 0, len(m.columns))
	for _, c := range m.columns {
		if !c.Hidden {
			visible = append(visible, c)
		}
	}

	g := &Grid{}

	hasSpanner := false
	for _, c := range visible {
		if c.Spanner != "" {
			hasSpanner = true
		}
	}
	if hasSpanner {
		row := make([]string, 0, len(visible)+1)
		row = append(row, "")
		for _, c := range visible {
			row = append(row, c.Spanner)
		}
		g.HeaderRows = append(g.HeaderRows, row)
	}
	labels := make([]string, 0, len(visible)+1)
	labels = append(labels, m.stubHeader)
	for _, c := range visible {
		labels = append(labels, c.Header)
	}
	g.HeaderRows = append(g.HeaderRows, labels)

	bodyIndex := make(map[string]int, len(m.rows))
	group := ""
	for _, r := range m.rows {
		if r.Group != "" && r.Group != group {
			header := make([]string, len(visible)+1)
			header[0] = r.Group
			g.Body = append(g.Body, BodyRow{Cells: header, GroupHeader: true})
		}
		group = r.Group

		cells := make([]string, 0, len(visible)+1)
		cells = append(cells, r.Stub)
		for _, c := range visible {
			cells = append(cells, display[r.ID][c.ID])
		}
		bodyIndex[r.ID] = len(g.Body)
		g.Body = append(g.Body, BodyRow{Cells: cells, Indent: r.Indent})
	}

	g.Widths = append(g.Widths, m.stubWidth)
	g.Aligns = append(g.Aligns, AlignLeft)
	for _, c := range visible {
		g.Widths = append(g.Widths, c.Width)
		align := c.Align
		if align == "" {
			align = AlignCenter
		}
		g.Aligns = append(g.Aligns, align)
	}

	gridCol := make(map[string]int, len(visible))
	for i, c := range visible {
		gridCol[c.ID] = i + 1
	}
	for i, fn := range m.footnotes {
		mark := m.markFor(i)
		g.Footnotes = append(g.Footnotes, FootnoteEntry{Mark: mark, Text: fn.Text})

		colID := fn.ColumnID
		for m.consumedBy[colID] != "" {
			// A merged-away column's mark lands on the slot that
			// consumed it.
			colID = m.consumedBy[colID]
		}
		col, ok := gridCol[colID]
		if !ok {
			continue
		}
		if fn.RowID == "" {
			g.Marks = append(g.Marks, Mark{Mark: mark, Col: col, Row: len(g.HeaderRows) - 1, Header: true})
		} else if idx, ok := bodyIndex[fn.RowID]; ok {
			g.Marks = append(g.Marks, Mark{Mark: mark, Col: col, Row: idx})
		}
	}

	return g
}

// formatCell renders one underlying value through the last matching
// format directive, with the missing substitution applied after.
func (m *Model) formatCell(r Row, colID string) string {
	v := m.Value(r.ID, colID)
	if summary.IsNA(v) {
		return m.missingText
	}
	rule := FormatRule{Kind: FormatAuto}
	for _, d := range m.formats {
		if d.columns[colID] && (d.filter == nil || d.filter(r)) {
			rule = d.rule
		}
	}
	return rule.Apply(v)
}

func substitute(pattern string, sources []string, cells map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(pattern, func(ph string) string {
		i, err := strconv.Atoi(ph[1 : len(ph)-1])
		if err != nil || i < 1 || i > len(sources) {
			return ph
		}
		return cells[sources[i-1]]
	})
}

func (m *Model) markFor(i int) string {
	if m.markStyle == MarksAlphabetic {
		return alphaMark(i)
	}
	return strconv.Itoa(i + 1)
}

// alphaMark yields a, b, ..., z, aa, ab, ... for successive indexes.
func alphaMark(i int) string {
	mark := ""
	for {
		mark = string(rune('a'+i%26)) + mark
		i = i/26 - 1
		if i < 0 {
			return mark
		}
	}
}
