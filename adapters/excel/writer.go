package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ddsjoberg/gt/domain/table"
	"github.com/ddsjoberg/gt/ports"
)

const sheet = "Sheet1"

// Writer serializes rendered grids to an Excel workbook
type Writer struct{}

// NewWriter creates an Excel table writer
func NewWriter() ports.TableWriter {
	return &Writer{}
}

// Write serializes the grid as a workbook to w.
func (wr *Writer) Write(grid *table.Grid, w io.Writer) error {
	f, err := wr.build(grid)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// WriteFile serializes the grid as a workbook at path.
func (wr *Writer) WriteFile(grid *table.Grid, path string) error {
	f, err := wr.build(grid)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func (wr *Writer) build(grid *table.Grid) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	groupStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create group style: %w", err)
	}

	marks := markIndex(grid)
	excelRow := 1

	for hr, header := range grid.HeaderRows {
		for col, cell := range header {
			text := cell
			if m, ok := marks[markKey{row: hr, col: col, header: true}]; ok {
				text += "^" + m
			}
			if err := setCell(f, col+1, excelRow, text); err != nil {
				return nil, err
			}
		}
		// Merge adjacent identical spanner labels so the label sits
		// once over its member columns.
		if hr < len(grid.HeaderRows)-1 {
			if err := mergeSpans(f, header, excelRow); err != nil {
				return nil, err
			}
		}
		start, _ := excelize.CoordinatesToCellName(1, excelRow)
		end, _ := excelize.CoordinatesToCellName(len(header), excelRow)
		if err := f.SetCellStyle(sheet, start, end, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header row: %w", err)
		}
		excelRow++
	}

	for br, body := range grid.Body {
		for col, cell := range body.Cells {
			text := cell
			if col == 0 && body.Indent > 0 {
				text = strings.Repeat("  ", body.Indent) + text
			}
			if m, ok := marks[markKey{row: br, col: col}]; ok {
				text += "^" + m
			}
			if err := setCell(f, col+1, excelRow, text); err != nil {
				return nil, err
			}
		}
		if body.GroupHeader {
			start, _ := excelize.CoordinatesToCellName(1, excelRow)
			end, _ := excelize.CoordinatesToCellName(grid.ColumnCount(), excelRow)
			if err := f.MergeCell(sheet, start, end); err != nil {
				return nil, fmt.Errorf("failed to merge group header: %w", err)
			}
			if err := f.SetCellStyle(sheet, start, end, groupStyle); err != nil {
				return nil, fmt.Errorf("failed to style group header: %w", err)
			}
		}
		excelRow++
	}

	if len(grid.Footnotes) > 0 {
		excelRow++
		for _, fn := range grid.Footnotes {
			if err := setCell(f, 1, excelRow, "^"+fn.Mark+" "+fn.Text); err != nil {
				return nil, err
			}
			excelRow++
		}
	}

	for i, w := range grid.Widths {
		if w > 0 {
			name, _ := excelize.ColumnNumberToName(i + 1)
			if err := f.SetColWidth(sheet, name, name, float64(w)); err != nil {
				return nil, fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}
	return f, nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to name cell: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

func mergeSpans(f *excelize.File, header []string, excelRow int) error {
	start := -1
	for col := 0; col <= len(header); col++ {
		run := col < len(header) && header[col] != "" && start >= 0 && header[col] == header[start]
		if run {
			continue
		}
		if start >= 0 && col-start > 1 && header[start] != "" {
			from, _ := excelize.CoordinatesToCellName(start+1, excelRow)
			to, _ := excelize.CoordinatesToCellName(col, excelRow)
			if err := f.MergeCell(sheet, from, to); err != nil {
				return fmt.Errorf("failed to merge spanner: %w", err)
			}
		}
		start = col
	}
	return nil
}

type markKey struct {
	row    int
	col    int
	header bool
}

func markIndex(grid *table.Grid) map[markKey]string {
	index := make(map[markKey]string, len(grid.Marks))
	for _, m := range grid.Marks {
		index[markKey{row: m.Row, col: m.Col, header: m.Header}] = m.Mark
	}
	return index
}
