package htmldoc

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/ddsjoberg/gt/domain/table"
	"github.com/ddsjoberg/gt/ports"
)

// Writer serializes rendered grids to a standalone HTML table. Stub
// labels, header labels, and footnote texts may carry inline markdown
// ("**bold**", "_italic_"), matching how table authors emphasize
// labels.
type Writer struct{}

// NewWriter creates an HTML table writer
func NewWriter() ports.TableWriter {
	return &Writer{}
}

// Write serializes the grid to w.
func (wr *Writer) Write(grid *table.Grid, w io.Writer) error {
	var b strings.Builder
	wr.render(grid, &b)
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

func (wr *Writer) render(grid *table.Grid, b *strings.Builder) {
	marks := markIndex(grid)

	b.WriteString("<table class=\"gt-table\">\n<thead>\n")
	for hr, header := range grid.HeaderRows {
		b.WriteString("<tr>\n")
		if hr < len(grid.HeaderRows)-1 {
			writeSpannerRow(b, header)
		} else {
			for col, cell := range header {
				b.WriteString("<th>")
				b.WriteString(inlineMarkdown(cell))
				writeMark(b, marks, markKey{row: hr, col: col, header: true})
				b.WriteString("</th>\n")
			}
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</thead>\n<tbody>\n")

	for br, body := range grid.Body {
		b.WriteString("<tr>\n")
		if body.GroupHeader {
			fmt.Fprintf(b, "<td colspan=\"%d\" class=\"gt-group\">", grid.ColumnCount())
			b.WriteString(inlineMarkdown(body.Cells[0]))
			b.WriteString("</td>\n</tr>\n")
			continue
		}
		for col, cell := range body.Cells {
			align := ""
			if col < len(grid.Aligns) {
				align = fmt.Sprintf(" style=\"text-align:%s\"", grid.Aligns[col])
			}
			if col == 0 {
				fmt.Fprintf(b, "<td%s class=\"gt-stub gt-indent-%d\">", align, body.Indent)
				b.WriteString(inlineMarkdown(cell))
			} else {
				fmt.Fprintf(b, "<td%s>", align)
				b.WriteString(html.EscapeString(cell))
			}
			writeMark(b, marks, markKey{row: br, col: col})
			b.WriteString("</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n")

	if len(grid.Footnotes) > 0 {
		b.WriteString("<tfoot>\n")
		for _, fn := range grid.Footnotes {
			fmt.Fprintf(b, "<tr><td colspan=\"%d\"><sup>%s</sup> ", grid.ColumnCount(), html.EscapeString(fn.Mark))
			b.WriteString(inlineMarkdown(fn.Text))
			b.WriteString("</td></tr>\n")
		}
		b.WriteString("</tfoot>\n")
	}
	b.WriteString("</table>\n")
}

// writeSpannerRow emits one spanner header row, collapsing adjacent
// identical labels into a single spanning cell.
func writeSpannerRow(b *strings.Builder, header []string) {
	col := 0
	for col < len(header) {
		label := header[col]
		span := 1
		for col+span < len(header) && label != "" && header[col+span] == label {
			span++
		}
		if span > 1 {
			fmt.Fprintf(b, "<th colspan=\"%d\" class=\"gt-spanner\">%s</th>\n", span, inlineMarkdown(label))
		} else {
			b.WriteString("<th>")
			b.WriteString(inlineMarkdown(label))
			b.WriteString("</th>\n")
		}
		col += span
	}
}

func writeMark(b *strings.Builder, marks map[markKey]string, key markKey) {
	if m, ok := marks[key]; ok {
		fmt.Fprintf(b, "<sup>%s</sup>", html.EscapeString(m))
	}
}

// inlineMarkdown renders a label's inline markdown and unwraps the
// paragraph the renderer puts around it.
func inlineMarkdown(s string) string {
	if s == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	out := strings.TrimSpace(string(markdown.ToHTML([]byte(s), p, renderer)))
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return out
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
