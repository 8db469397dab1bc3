// Package table holds the annotated-table data model: a fixed grid of cell
// strings, a region-keyed annotation store and the cell/row/column views the
// annotation tasks work through.
package table

import (
	"encoding/json"

	"github.com/teranos/wtu/errors"
)

// NoHeader is the header row index of a table without a declared header.
const NoHeader = -1

// Table is one input record: a column-major grid of cell contents plus its
// annotations. The grid never changes after construction.
type Table struct {
	relation  [][]string
	numCols   int
	numRows   int
	headerRow int
	store     *Store

	// unknown record fields, written back unchanged
	extra     map[string]json.RawMessage
	hasHeader bool
}

// New builds a table from a column-major relation. The relation must have
// at least one column and every column the same length.
func New(relation [][]string) (*Table, error) {
	if len(relation) == 0 {
		return nil, errors.NewMalformedRecordError("relation has no columns")
	}
	numRows := len(relation[0])
	for c, col := range relation {
		if len(col) != numRows {
			return nil, errors.NewMalformedRecordError(
				"relation is not rectangular: column %d has %d rows, column 0 has %d", c, len(col), numRows)
		}
	}
	return &Table{
		relation:  relation,
		numCols:   len(relation),
		numRows:   numRows,
		headerRow: NoHeader,
		store:     NewStore(),
	}, nil
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return t.numCols }

// NumRows returns the number of rows, header row included.
func (t *Table) NumRows() int { return t.numRows }

// Content returns the string in column c, row r.
func (t *Table) Content(c, r int) string { return t.relation[c][r] }

// HeaderRow returns the declared header row index, or NoHeader.
func (t *Table) HeaderRow() int { return t.headerRow }

// SetHeaderRow declares row r as the header row. NoHeader clears it.
func (t *Table) SetHeaderRow(r int) error {
	if r != NoHeader && (r < 0 || r >= t.numRows) {
		return errors.NewMalformedRecordError("header row %d outside [0,%d)", r, t.numRows)
	}
	t.headerRow = r
	t.hasHeader = true
	return nil
}

// IsHeader reports whether row r is the declared header row.
func (t *Table) IsHeader(r int) bool {
	return t.headerRow != NoHeader && r == t.headerRow
}

// Store returns the annotation store.
func (t *Table) Store() *Store { return t.store }

// Annotations returns the annotations of region r without creating it.
func (t *Table) Annotations(r Region) []Annotation {
	return t.store.Get(r).All()
}

// Annotate appends a to region r and returns its index.
func (t *Table) Annotate(r Region, a Annotation) int {
	return t.store.GetOrCreate(r).Append(a)
}

// Resolve returns the annotation a locator points to.
func (t *Table) Resolve(loc Locator) (Annotation, error) {
	if loc.Col < 0 || loc.Col >= t.numCols || loc.Row < 0 || loc.Row >= t.numRows {
		return Annotation{}, errors.Wrap(errors.NewDanglingReferenceError(loc.String()), "cell outside table")
	}
	a, ok := t.store.Get(loc.Region()).At(loc.Index)
	if !ok {
		return Annotation{}, errors.NewDanglingReferenceError(loc.String())
	}
	return a, nil
}

// ResolveString parses and resolves a locator string.
func (t *Table) ResolveString(s string) (Annotation, error) {
	loc, err := ParseLocator(s)
	if err != nil {
		return Annotation{}, err
	}
	return t.Resolve(loc)
}

func (t *Table) validRegion(r Region) bool {
	switch r.Kind {
	case RegionTable:
		return true
	case RegionColumn:
		return r.Col < t.numCols
	case RegionRow:
		return r.Row < t.numRows
	case RegionCell:
		return r.Col < t.numCols && r.Row < t.numRows
	}
	return false
}
