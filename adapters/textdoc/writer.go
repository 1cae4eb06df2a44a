package textdoc

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ddsjoberg/gt/domain/table"
	"github.com/ddsjoberg/gt/ports"
)

// Writer serializes rendered grids as a monospace text table.
type Writer struct{}

// NewWriter creates a plain-text table writer
func NewWriter() ports.TableWriter {
	return &Writer{}
}

// Write serializes the grid to w.
func (wr *Writer) Write(grid *table.Grid, w io.Writer) error {
	cells := resolveCells(grid)
	widths := columnWidths(grid, cells)

	var b strings.Builder
	total := len(widths) - 1
	for _, cw := range widths {
		total += cw
	}
	rule := strings.Repeat("-", total)

	b.WriteString(rule + "\n")
	for i := range grid.HeaderRows {
		writeRow(&b, cells.header[i], widths, grid.Aligns)
	}
	b.WriteString(rule + "\n")
	for i, body := range grid.Body {
		if body.GroupHeader {
			b.WriteString(cells.body[i][0] + "\n")
			continue
		}
		writeRow(&b, cells.body[i], widths, grid.Aligns)
	}
	b.WriteString(rule + "\n")
	for _, fn := range grid.Footnotes {
		fmt.Fprintf(&b, "^%s %s\n", fn.Mark, fn.Text)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFile serializes the grid to a file at path.
func (wr *Writer) WriteFile(grid *table.Grid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return wr.Write(grid, f)
}

type resolved struct {
	header [][]string
	body   [][]string
}

// resolveCells applies indentation and footnote marks to the raw grid
// strings so width computation sees the final text.
func resolveCells(grid *table.Grid) resolved {
	marks := make(map[[3]int]string, len(grid.Marks))
	for _, m := range grid.Marks {
		h := 0
		if m.Header {
			h = 1
		}
		marks[[3]int{h, m.Row, m.Col}] = m.Mark
	}

	r := resolved{}
	for hr, header := range grid.HeaderRows {
		row := make([]string, len(header))
		for col, cell := range header {
			if m, ok := marks[[3]int{1, hr, col}]; ok {
				cell += "^" + m
			}
			row[col] = cell
		}
		r.header = append(r.header, row)
	}
	for br, body := range grid.Body {
		row := make([]string, len(body.Cells))
		for col, cell := range body.Cells {
			if col == 0 && body.Indent > 0 {
				cell = strings.Repeat("  ", body.Indent) + cell
			}
			if m, ok := marks[[3]int{0, br, col}]; ok {
				cell += "^" + m
			}
			row[col] = cell
		}
		r.body = append(r.body, row)
	}
	return r
}

func columnWidths(grid *table.Grid, cells resolved) []int {
	widths := make([]int, grid.ColumnCount())
	copy(widths, grid.Widths)
	grow := func(rows [][]string) {
		for _, row := range rows {
			for col, cell := range row {
				if col < len(widths) && utf8.RuneCountInString(cell) > widths[col] {
					widths[col] = utf8.RuneCountInString(cell)
				}
			}
		}
	}
	grow(cells.header)
	for i, body := range grid.Body {
		if !body.GroupHeader {
			grow([][]string{cells.body[i]})
		}
	}
	return widths
}

func writeRow(b *strings.Builder, cells []string, widths []int, aligns []table.Alignment) {
	for col, cell := range cells {
		if col > 0 {
			b.WriteString(" ")
		}
		align := table.AlignLeft
		if col < len(aligns) {
			align = aligns[col]
		}
		b.WriteString(pad(cell, widths[col], align))
	}
	b.WriteString("\n")
}

func pad(s string, width int, align table.Alignment) string {
	gap := width - utf8.RuneCountInString(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case table.AlignRight:
		return strings.Repeat(" ", gap) + s
	case table.AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
