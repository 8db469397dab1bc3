package table

import "strings"

// Cell is a view of one cell of a table.
type Cell struct {
	t   *Table
	Col int
	Row int
}

// Row is a view of one row of a table.
type Row struct {
	t     *Table
	Index int
}

// Column is a view of one column of a table.
type Column struct {
	t     *Table
	Index int
}

// Predicates narrow the view iterators. A view passes when every
// predicate accepts it.
type (
	CellPredicate   func(Cell) bool
	RowPredicate    func(Row) bool
	ColumnPredicate func(Column) bool
)

// Cell returns the view of column c, row r.
func (t *Table) Cell(c, r int) Cell { return Cell{t: t, Col: c, Row: r} }

// Row returns the view of row r.
func (t *Table) Row(r int) Row { return Row{t: t, Index: r} }

// Column returns the view of column c.
func (t *Table) Column(c int) Column { return Column{t: t, Index: c} }

// Cells returns all cells in column-major order.
func (t *Table) Cells(preds ...CellPredicate) []Cell {
	var out []Cell
	for c := 0; c < t.numCols; c++ {
		for r := 0; r < t.numRows; r++ {
			if cell := t.Cell(c, r); acceptCell(cell, preds) {
				out = append(out, cell)
			}
		}
	}
	return out
}

// Rows returns all rows in order.
func (t *Table) Rows(preds ...RowPredicate) []Row {
	var out []Row
	for r := 0; r < t.numRows; r++ {
		row := t.Row(r)
		ok := true
		for _, p := range preds {
			if !p(row) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, row)
		}
	}
	return out
}

// Columns returns all columns in order.
func (t *Table) Columns(preds ...ColumnPredicate) []Column {
	var out []Column
	for c := 0; c < t.numCols; c++ {
		col := t.Column(c)
		ok := true
		for _, p := range preds {
			if !p(col) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, col)
		}
	}
	return out
}

func acceptCell(c Cell, preds []CellPredicate) bool {
	for _, p := range preds {
		if !p(c) {
			return false
		}
	}
	return true
}

// NonEmpty accepts cells whose content is not blank.
func NonEmpty() CellPredicate {
	return func(c Cell) bool { return strings.TrimSpace(c.Content()) != "" }
}

// NotHeader accepts cells outside the declared header row.
func NotHeader() CellPredicate {
	return func(c Cell) bool { return !c.t.IsHeader(c.Row) }
}

// NotColumn accepts cells outside column col.
func NotColumn(col int) CellPredicate {
	return func(c Cell) bool { return c.Col != col }
}

// DataRows accepts rows other than the declared header row.
func DataRows() RowPredicate {
	return func(r Row) bool { return !r.t.IsHeader(r.Index) }
}

// Table returns the table the cell belongs to.
func (c Cell) Table() *Table { return c.t }

// Content returns the cell string.
func (c Cell) Content() string { return c.t.relation[c.Col][c.Row] }

// Region returns the cell's region key.
func (c Cell) Region() Region { return CellRegion(c.Col, c.Row) }

// IsHeader reports whether the cell is in the declared header row.
func (c Cell) IsHeader() bool { return c.t.IsHeader(c.Row) }

// Annotations returns the cell's annotations without creating its region.
func (c Cell) Annotations() []Annotation { return c.t.Annotations(c.Region()) }

// FindAnnotations returns the cell's annotations matching f in order.
func (c Cell) FindAnnotations(f Filter) []Indexed { return c.t.store.Get(c.Region()).Find(f) }

// Annotate appends a to the cell and returns its locator.
func (c Cell) Annotate(a Annotation) Locator {
	idx := c.t.Annotate(c.Region(), a)
	return c.Locator(idx)
}

// Locator returns the locator of the cell's i-th annotation.
func (c Cell) Locator(i int) Locator { return Locator{Col: c.Col, Row: c.Row, Index: i} }

// Cells returns the row's cells from left to right.
func (r Row) Cells(preds ...CellPredicate) []Cell {
	var out []Cell
	for c := 0; c < r.t.numCols; c++ {
		if cell := r.t.Cell(c, r.Index); acceptCell(cell, preds) {
			out = append(out, cell)
		}
	}
	return out
}

// Region returns the row's region key.
func (r Row) Region() Region { return RowRegion(r.Index) }

// IsHeader reports whether the row is the declared header row.
func (r Row) IsHeader() bool { return r.t.IsHeader(r.Index) }

// Annotations returns the row's own annotations.
func (r Row) Annotations() []Annotation { return r.t.Annotations(r.Region()) }

// FindAnnotations returns the row's own annotations matching f in order.
func (r Row) FindAnnotations(f Filter) []Indexed { return r.t.store.Get(r.Region()).Find(f) }

// Annotate appends a to the row and returns its index.
func (r Row) Annotate(a Annotation) int { return r.t.Annotate(r.Region(), a) }

// Cells returns the column's cells from top to bottom.
func (c Column) Cells(preds ...CellPredicate) []Cell {
	var out []Cell
	for r := 0; r < c.t.numRows; r++ {
		if cell := c.t.Cell(c.Index, r); acceptCell(cell, preds) {
			out = append(out, cell)
		}
	}
	return out
}

// Region returns the column's region key.
func (c Column) Region() Region { return ColumnRegion(c.Index) }

// Annotations returns the column's own annotations.
func (c Column) Annotations() []Annotation { return c.t.Annotations(c.Region()) }

// FindAnnotations returns the column's own annotations matching f in order.
func (c Column) FindAnnotations(f Filter) []Indexed { return c.t.store.Get(c.Region()).Find(f) }

// Annotate appends a to the column and returns its index.
func (c Column) Annotate(a Annotation) int { return c.t.Annotate(c.Region(), a) }
