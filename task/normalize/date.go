package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Date is one reading of a date string. Month and Day are 0 when the
// notation does not carry them.
type Date struct {
	Year     int
	Month    int
	Day      int
	Notation string
}

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

const (
	dayExpr   = `(?P<day>[12][0-9]|3[01]|0?[1-9])`
	monthExpr = `(?P<month>1[012]|0?[1-9])`
	yearExpr  = `(?P<year>[0-9]{4})`
	sepExpr   = `[/.-]`
)

var monthNameExpr = func() string {
	names := make([]string, 0, len(monthNumbers))
	for name := range monthNumbers {
		names = append(names, name)
	}
	// longest first so "september" is not cut to "sep"
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return `(?P<month_name>(?i:` + strings.Join(names, "|") + `))`
}()

type dateNotation struct {
	name    string
	pattern *regexp.Regexp
}

// dateNotations are tried in order on the whole string; every match is a
// separate reading.
var dateNotations = []dateNotation{
	{"YYYY-MM-DD", regexp.MustCompile(`^` + yearExpr + sepExpr + monthExpr + sepExpr + dayExpr + `$`)},
	{"Mon DD, YYYY", regexp.MustCompile(`^` + monthNameExpr + `\.?\s+` + dayExpr + `\s*,?\s+` + yearExpr + `$`)},
	{"DD.MM.YYYY", regexp.MustCompile(`^` + dayExpr + sepExpr + monthExpr + sepExpr + yearExpr + `$`)},
	{"MM.DD.YYYY", regexp.MustCompile(`^` + monthExpr + sepExpr + dayExpr + sepExpr + yearExpr + `$`)},
	{"DD. Mon YYYY", regexp.MustCompile(`^` + dayExpr + `\.?\s+` + monthNameExpr + `\.?\s+` + yearExpr + `$`)},
	{"Mon YYYY", regexp.MustCompile(`^` + monthNameExpr + `\.?,?\s+` + yearExpr + `$`)},
	{"MM YYYY", regexp.MustCompile(`^` + monthExpr + `\.?[ /-]+` + yearExpr + `$`)},
	{"YYYY Mon", regexp.MustCompile(`^` + yearExpr + `\s+` + monthNameExpr + `\.?$`)},
	{"YYYY MM", regexp.MustCompile(`^` + yearExpr + `[ /-]+` + monthExpr + `\.?$`)},
}

// ParseDate returns a reading for every notation matching s.
func ParseDate(s string) []Date {
	s = strings.TrimSpace(s)
	var out []Date
	for _, n := range dateNotations {
		m := n.pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		d := Date{Notation: n.name}
		for i, group := range n.pattern.SubexpNames() {
			if m[i] == "" {
				continue
			}
			switch group {
			case "year":
				d.Year, _ = strconv.Atoi(m[i])
			case "month":
				d.Month, _ = strconv.Atoi(m[i])
			case "month_name":
				d.Month = monthNumbers[strings.ToLower(m[i])]
			case "day":
				d.Day, _ = strconv.Atoi(m[i])
			}
		}
		out = append(out, d)
	}
	return out
}
