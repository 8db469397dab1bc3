package normalize

import (
	"regexp"
	"strings"
)

// Unit is one unit of a quantity. Factor converts a value in this unit to
// the quantity's base unit.
type Unit struct {
	Name     string
	DataType string
	Factor   float64
	pattern  *regexp.Regexp
}

// Quantity is a physical dimension with its registered units.
type Quantity struct {
	Name     string
	BaseUnit string
	Units    []Unit
}

// Measurement is one reading of a value with a unit.
type Measurement struct {
	Value           float64
	ValueNormalized float64
	Unit            string
	DataType        string
	Quantity        string
}

func unit(name, dataType string, factor float64, expr string) Unit {
	return Unit{
		Name:     name,
		DataType: dataType,
		Factor:   factor,
		pattern:  regexp.MustCompile(`^(?P<value>` + numberExpr + `)\s*(?:` + expr + `)$`),
	}
}

// Quantities lists the recognized quantities in matching order.
var Quantities = []Quantity{
	{
		Name:     "length",
		BaseUnit: "m",
		Units: []Unit{
			unit("m", "dt:metre", 1, `m(?:et(?:er|re)s?)?`),
			unit("km", "dt:kilometre", 1e3, `k(?:ilo\s*)?m(?:et(?:er|re)s?)?`),
			unit("cm", "dt:centimetre", 1e-2, `c(?:enti\s*)?m(?:et(?:er|re)s?)?`),
			unit("mm", "dt:millimetre", 1e-3, `m(?:illi\s*)?m(?:et(?:er|re)s?)?`),
			unit("mi", "dt:mile", 1609.344, `mi(?:les?)?`),
			unit("ft", "dt:foot", 0.3048, `ft|feet|foot`),
			unit("in", "dt:inch", 0.0254, `in(?:ch(?:es)?)?`),
		},
	},
	{
		Name:     "mass",
		BaseUnit: "kg",
		Units: []Unit{
			unit("kg", "dt:kilogram", 1, `k(?:ilo\s*)?g(?:ram(?:me)?s?)?`),
			unit("t", "dt:tonne", 1e3, `t(?:onn?e?s?)?`),
			unit("g", "dt:gram", 1e-3, `g(?:ram(?:me)?s?)?`),
			unit("lb", "dt:pound", 0.45359237, `lbs?|pounds?`),
		},
	},
	{
		Name:     "area",
		BaseUnit: "m²",
		Units: []Unit{
			unit("km²", "dt:squareKilometre", 1e6, `km(?:2|²)|sq\.?\s*km|square\s+kilomet(?:er|re)s?`),
			unit("m²", "dt:squareMetre", 1, `m(?:2|²)|sq\.?\s*m|square\s+met(?:er|re)s?`),
			unit("ha", "dt:hectare", 1e4, `ha|hectares?`),
		},
	},
}

// ParseQuantity returns a reading for every unit whose pattern matches s
// and every numeric reading of its value.
func ParseQuantity(s string) []Measurement {
	s = strings.TrimSpace(s)
	var out []Measurement
	for _, q := range Quantities {
		for _, u := range q.Units {
			m := u.pattern.FindStringSubmatch(s)
			if m == nil {
				continue
			}
			for _, n := range ParseNumber(m[1]) {
				out = append(out, Measurement{
					Value:           n.Value,
					ValueNormalized: n.Value * u.Factor,
					Unit:            u.Name,
					DataType:        u.DataType,
					Quantity:        q.Name,
				})
			}
		}
	}
	return out
}
