package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// numberExpr is a number with optional sign, '.' or ',' separators and an
// optional exponent. Shared with the quantity patterns.
const numberExpr = `[+-]?(?:[0-9]+(?:[.,][0-9]+)*|[.,][0-9]+)(?:[eE][+-]?[0-9]+)?`

var numberPattern = regexp.MustCompile(`^` + numberExpr + `$`)

// Number is one reading of a numeric string. The separator fields record
// how '.' and ',' were interpreted; both are empty when the string has none.
type Number struct {
	Value    float64
	Decimal  string
	Grouping string
}

// ParseNumber returns every plausible reading of s:
//
//   - no separator: one reading
//   - one separator kind occurring more than once: grouping ("1,234,567")
//   - both kinds: the later one is the decimal separator ("1.234,56");
//     nothing when that separator repeats
//   - a single separator: both the decimal and the grouping reading, unless
//     it leads the number (".5")
//
// An unparseable string yields no readings.
func ParseNumber(s string) []Number {
	s = strings.TrimSpace(s)
	if !numberPattern.MatchString(s) {
		return nil
	}

	sign := ""
	if s[0] == '+' || s[0] == '-' {
		sign, s = s[:1], s[1:]
	}
	mantissa, exponent := s, ""
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa, exponent = s[:i], s[i:]
	}

	dots := strings.Count(mantissa, ".")
	commas := strings.Count(mantissa, ",")

	read := func(decimal, grouping string) (Number, bool) {
		m := mantissa
		if grouping != "" {
			m = strings.ReplaceAll(m, grouping, "")
		}
		if decimal != "" {
			m = strings.Replace(m, decimal, ".", 1)
		}
		v, err := strconv.ParseFloat(sign+m+exponent, 64)
		if err != nil {
			return Number{}, false
		}
		return Number{Value: v, Decimal: decimal, Grouping: grouping}, true
	}

	var out []Number
	add := func(decimal, grouping string) {
		if n, ok := read(decimal, grouping); ok {
			out = append(out, n)
		}
	}

	switch {
	case dots == 0 && commas == 0:
		add("", "")

	case dots > 0 && commas > 0:
		last := mantissa[strings.LastIndexAny(mantissa, ".,")]
		decimal, grouping := ".", ","
		if last == ',' {
			decimal, grouping = ",", "."
		}
		if strings.Count(mantissa, decimal) == 1 {
			add(decimal, grouping)
		}

	default:
		sep, count := ".", dots
		if commas > 0 {
			sep, count = ",", commas
		}
		switch {
		case count > 1:
			add("", sep)
		case strings.HasPrefix(mantissa, sep):
			add(sep, "")
		default:
			add(sep, "")
			add("", sep)
		}
	}

	return dedupe(out)
}

func dedupe(ns []Number) []Number {
	if len(ns) < 2 {
		return ns
	}
	out := ns[:1]
	for _, n := range ns[1:] {
		dup := false
		for _, seen := range out {
			if seen.Value == n.Value {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, n)
		}
	}
	return out
}
