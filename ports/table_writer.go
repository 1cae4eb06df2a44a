package ports

import (
	"io"

	"github.com/ddsjoberg/gt/domain/table"
)

// TableWriter serializes a rendered grid to a display format. Writers
// consume the grid contract only and must preserve its row, merge, and
// footnote ordering.
type TableWriter interface {
	// Write serializes the grid to w.
	Write(grid *table.Grid, w io.Writer) error

	// WriteFile serializes the grid to a file at path.
	WriteFile(grid *table.Grid, path string) error
}
