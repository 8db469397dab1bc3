package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/wtu/errors"
)

// Locator is a weak reference to an annotation of a cell region, rendered
// as "<col>:<row>/<index>".
type Locator struct {
	Col   int
	Row   int
	Index int
}

func (l Locator) String() string {
	return fmt.Sprintf("%d:%d/%d", l.Col, l.Row, l.Index)
}

// Region returns the cell region the locator points into.
func (l Locator) Region() Region {
	return CellRegion(l.Col, l.Row)
}

// ParseLocator parses a locator string. Syntax errors are reported as
// dangling references since the locator cannot resolve.
func ParseLocator(s string) (Locator, error) {
	regionPart, indexPart, ok := strings.Cut(s, "/")
	if !ok {
		return Locator{}, errors.Wrap(errors.NewDanglingReferenceError(s), "missing '/'")
	}
	region, err := ParseRegion(regionPart)
	if err != nil || region.Kind != RegionCell {
		return Locator{}, errors.Wrap(errors.NewDanglingReferenceError(s), "not a cell region")
	}
	idx, err := strconv.Atoi(indexPart)
	if err != nil || idx < 0 {
		return Locator{}, errors.Wrap(errors.NewDanglingReferenceError(s), "bad index")
	}
	return Locator{Col: region.Col, Row: region.Row, Index: idx}, nil
}
