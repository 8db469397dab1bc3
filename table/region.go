package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/wtu/errors"
)

// RegionKind distinguishes the four annotation scopes of a table.
type RegionKind int

const (
	RegionTable RegionKind = iota
	RegionColumn
	RegionRow
	RegionCell
)

func (k RegionKind) String() string {
	switch k {
	case RegionTable:
		return "table"
	case RegionColumn:
		return "column"
	case RegionRow:
		return "row"
	case RegionCell:
		return "cell"
	default:
		return fmt.Sprintf("RegionKind(%d)", int(k))
	}
}

// Region addresses one annotation list of a table. Col and Row are only
// meaningful for the kinds that use them and are -1 otherwise.
type Region struct {
	Kind RegionKind
	Col  int
	Row  int
}

// TableRegion addresses the whole-table annotations.
func TableRegion() Region { return Region{Kind: RegionTable, Col: -1, Row: -1} }

// ColumnRegion addresses the annotations of column c.
func ColumnRegion(c int) Region { return Region{Kind: RegionColumn, Col: c, Row: -1} }

// RowRegion addresses the annotations of row r.
func RowRegion(r int) Region { return Region{Kind: RegionRow, Col: -1, Row: r} }

// CellRegion addresses the annotations of the cell in column c, row r.
func CellRegion(c, r int) Region { return Region{Kind: RegionCell, Col: c, Row: r} }

// String renders the record key: ":" for the table, "<col>:" for a column,
// ":<row>" for a row and "<col>:<row>" for a cell.
func (r Region) String() string {
	switch r.Kind {
	case RegionColumn:
		return strconv.Itoa(r.Col) + ":"
	case RegionRow:
		return ":" + strconv.Itoa(r.Row)
	case RegionCell:
		return strconv.Itoa(r.Col) + ":" + strconv.Itoa(r.Row)
	default:
		return ":"
	}
}

// ParseRegion parses a record key. Both "" and ":" address the table.
func ParseRegion(key string) (Region, error) {
	if key == "" || key == ":" {
		return TableRegion(), nil
	}

	colPart, rowPart, ok := strings.Cut(key, ":")
	if !ok {
		return Region{}, errors.Newf("region key %q has no ':' separator", key)
	}

	col, row := -1, -1
	var err error
	if colPart != "" {
		if col, err = parseIndex(colPart); err != nil {
			return Region{}, errors.Wrapf(err, "region key %q", key)
		}
	}
	if rowPart != "" {
		if row, err = parseIndex(rowPart); err != nil {
			return Region{}, errors.Wrapf(err, "region key %q", key)
		}
	}

	switch {
	case col >= 0 && row >= 0:
		return CellRegion(col, row), nil
	case col >= 0:
		return ColumnRegion(col), nil
	default:
		return RowRegion(row), nil
	}
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Newf("index %q is not an integer", s)
	}
	if n < 0 {
		return 0, errors.Newf("index %d is negative", n)
	}
	return n, nil
}

// less orders regions table, columns, rows, cells; cells column-major.
func (r Region) less(o Region) bool {
	if r.Kind != o.Kind {
		return r.Kind < o.Kind
	}
	if r.Col != o.Col {
		return r.Col < o.Col
	}
	return r.Row < o.Row
}
