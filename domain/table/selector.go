package table

import (
	"strings"

	"github.com/ddsjoberg/gt/domain/core"
)

// ColumnSelector picks the columns a transformation applies to. It is
// resolved against the model exactly once, at the transformation call,
// never re-derived at render time.
type ColumnSelector interface {
	Resolve(cols []Column) ([]string, error)
}

type namedSelector struct {
	ids []string
}

func (s namedSelector) Resolve(cols []Column) ([]string, error) {
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c.ID] = true
	}
	out := make([]string, 0, len(s.ids))
	for _, id := range s.ids {
		if !present[id] {
			return nil, core.NewUnknownReferenceError("column", id)
		}
		out = append(out, id)
	}
	return out, nil
}

type prefixSelector struct {
	prefix string
}

func (s prefixSelector) Resolve(cols []Column) ([]string, error) {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if strings.HasPrefix(c.ID, s.prefix) {
			out = append(out, c.ID)
		}
	}
	return out, nil
}

type predicateSelector struct {
	pred func(Column) bool
}

func (s predicateSelector) Resolve(cols []Column) ([]string, error) {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if s.pred(c) {
			out = append(out, c.ID)
		}
	}
	return out, nil
}

// ColumnsNamed selects an explicit column id set. Resolution fails
// with ErrUnknownReference if any id is absent from the model.
func ColumnsNamed(ids ...string) ColumnSelector {
	return namedSelector{ids: ids}
}

// ColumnsWithPrefix selects every column whose id starts with prefix.
func ColumnsWithPrefix(prefix string) ColumnSelector {
	return prefixSelector{prefix: prefix}
}

// ColumnsWhere selects columns by predicate.
func ColumnsWhere(pred func(Column) bool) ColumnSelector {
	return predicateSelector{pred: pred}
}

// AllColumns selects every column, hidden ones included.
func AllColumns() ColumnSelector {
	return predicateSelector{pred: func(Column) bool { return true }}
}

// RowFilter restricts a transformation to matching rows. A nil filter
// matches every row.
type RowFilter func(Row) bool

// RowsLabeled matches rows whose stub label is in the given set.
func RowsLabeled(labels ...string) RowFilter {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return func(r Row) bool { return set[r.Stub] }
}

// RowsInGroup matches rows carrying the given row-group tag.
func RowsInGroup(group string) RowFilter {
	return func(r Row) bool { return r.Group == group }
}

// RowsWhere matches rows by predicate.
func RowsWhere(pred func(Row) bool) RowFilter {
	return RowFilter(pred)
}
