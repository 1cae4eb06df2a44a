package table

import (
	"regexp"
	"strconv"

	"github.com/ddsjoberg/gt/domain/core"
)

var placeholderRe = regexp.MustCompile(`\{(\d+)\}`)

// ApplyFormat attaches a format rule to the selected columns,
// optionally restricted to rows matching filter. The selector is
// resolved now; later rules targeting the same (column, row) pair
// override earlier ones at render time.
func (m *Model) ApplyFormat(sel ColumnSelector, filter RowFilter, rule FormatRule) error {
	ids, err := sel.Resolve(m.columns)
	if err != nil {
		return err
	}
	cols := make(map[string]bool, len(ids))
	for _, id := range ids {
		cols[id] = true
	}
	m.formats = append(m.formats, formatDirective{columns: cols, filter: filter, rule: rule})
	return nil
}

// MergeColumns declares a merge of 2-4 source columns into the first
// one. On rows matching filter, the first column renders as pattern
// with {1}, {2}, ... substituted by each source's already-formatted
// string; the remaining sources are hidden from rendering but stay
// addressable for later rules. Merges apply in declaration order and
// the last one targeting a given cell wins.
func (m *Model) MergeColumns(sourceIDs []string, pattern string, filter RowFilter) error {
	if len(sourceIDs) < 2 || len(sourceIDs) > 4 {
		return core.NewMergePatternError(pattern, len(sourceIDs))
	}
	for _, id := range sourceIDs {
		if m.column(id) == nil {
			return core.NewUnknownReferenceError("column", id)
		}
	}
	out := m.column(sourceIDs[0])
	if out.Hidden {
		return core.ErrAlreadyMerged
	}

	maxRef := 0
	for _, match := range placeholderRe.FindAllStringSubmatch(pattern, -1) {
		i, err := strconv.Atoi(match[1])
		if err != nil || i < 1 || i > len(sourceIDs) {
			return core.NewMergePatternError(pattern, len(sourceIDs))
		}
		if i > maxRef {
			maxRef = i
		}
	}
	if maxRef != len(sourceIDs) {
		return core.NewMergePatternError(pattern, len(sourceIDs))
	}

	for _, id := range sourceIDs[1:] {
		c := m.column(id)
		if !c.Hidden {
			c.Hidden = true
			m.consumedBy[id] = out.ID
		}
	}
	m.merges = append(m.merges, mergeRule{sources: append([]string(nil), sourceIDs...), pattern: pattern, filter: filter})
	return nil
}

// AddSpanner groups the given columns under a header-level label.
// A column belongs to at most one spanner; a later spanner takes the
// column over.
func (m *Model) AddSpanner(label string, columnIDs []string) error {
	for _, id := range columnIDs {
		if m.column(id) == nil {
			return core.NewUnknownReferenceError("column", id)
		}
	}
	for _, id := range columnIDs {
		m.column(id).Spanner = label
	}
	return nil
}

// AddRowGroup tags the given rows with a row-group label, rendered as
// a group header row preceding its members.
func (m *Model) AddRowGroup(label string, rowIDs []string) error {
	for _, id := range rowIDs {
		if m.row(id) == nil {
			return core.NewUnknownReferenceError("row", id)
		}
	}
	for _, id := range rowIDs {
		m.row(id).Group = label
	}
	return nil
}

// SetWidth fixes a column's rendered width. Zero leaves the width to
// the display writer.
func (m *Model) SetWidth(columnID string, width int) error {
	c := m.column(columnID)
	if c == nil {
		return core.NewUnknownReferenceError("column", columnID)
	}
	c.Width = width
	return nil
}

// SetStubWidth fixes the stub column's rendered width.
func (m *Model) SetStubWidth(width int) {
	m.stubWidth = width
}

// SetAlignment sets the alignment of the selected columns.
func (m *Model) SetAlignment(sel ColumnSelector, align Alignment) error {
	ids, err := sel.Resolve(m.columns)
	if err != nil {
		return err
	}
	for _, id := range ids {
		m.column(id).Align = align
	}
	return nil
}

// RelabelColumns replaces header labels, keyed by column id.
func (m *Model) RelabelColumns(labels map[string]string) error {
	for id := range labels {
		if m.column(id) == nil {
			return core.NewUnknownReferenceError("column", id)
		}
	}
	for id, label := range labels {
		m.column(id).Header = label
	}
	return nil
}

// SetStubHeader sets the header label of the stub column.
func (m *Model) SetStubHeader(label string) {
	m.stubHeader = label
}

// IndentRows sets the indent level of the given rows.
func (m *Model) IndentRows(rowIDs []string, level int) error {
	for _, id := range rowIDs {
		if m.row(id) == nil {
			return core.NewUnknownReferenceError("row", id)
		}
	}
	for _, id := range rowIDs {
		m.row(id).Indent = level
	}
	return nil
}

// AddFootnote appends a footnote for a column header (empty RowID) or
// a body cell. Marks are assigned at render time in declaration order,
// so reordering AddFootnote calls before rendering reorders marks.
func (m *Model) AddFootnote(loc Footnote, text string) error {
	if m.column(loc.ColumnID) == nil {
		return core.NewUnknownReferenceError("column", loc.ColumnID)
	}
	if loc.RowID != "" && m.row(loc.RowID) == nil {
		return core.NewUnknownReferenceError("row", loc.RowID)
	}
	loc.Text = text
	m.footnotes = append(m.footnotes, loc)
	return nil
}

// SetMissingText replaces the substitution text for not-applicable
// values. The default is DefaultMissingText.
func (m *Model) SetMissingText(text string) {
	m.missingText = text
}

// SetMarkStyle switches the footnote mark alphabet.
func (m *Model) SetMarkStyle(style MarkStyle) {
	m.markStyle = style
}
