package literallinking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/teranos/wtu/index"
	"github.com/teranos/wtu/internal/util"
	"github.com/teranos/wtu/table"
)

// Match families.
const (
	FamilyNumeric      = "numeric"
	FamilyValueAndUnit = "value_and_unit"
	FamilyDate         = "date"
	FamilyString       = "string"
)

// Metric names.
const (
	MetricWeightedDifference = "weighted_difference"
	MetricExact              = "exact"
	MetricLevenshtein        = "levenshtein_similarity"
)

// WeightedDifference compares two numbers relative to the larger magnitude:
// 1 when equal, 0 when exactly one of them is zero.
func WeightedDifference(a, b float64) float64 {
	if a == b {
		return 1
	}
	if a == 0 || b == 0 {
		return 0
	}
	low, high := util.AbsFloat64(a), util.AbsFloat64(b)
	if low > high {
		low, high = high, low
	}
	d := util.AbsFloat64(a-b) / high
	if d > 1 {
		return 0
	}
	return 1 - d
}

// families returns the match families a literal type can take part in.
// FamilyString is implied for every type and not listed.
func families(literalType string) (numeric, unit, date bool) {
	lt := strings.ToLower(literalType)
	switch {
	case lt == "numeric" || lt == "number":
		return true, true, false
	case lt == "date" || lt == "xsd:date" || lt == "xsd:gyearmonth" || lt == "xsd:datetime":
		return false, false, true
	case lt == "value_and_unit" || strings.HasPrefix(lt, "dt:"):
		return true, true, false
	case strings.HasPrefix(lt, "xsd:"):
		switch strings.TrimPrefix(lt, "xsd:") {
		case "integer", "int", "long", "short", "decimal", "double", "float",
			"nonnegativeinteger", "positiveinteger", "negativeinteger", "nonpositiveinteger":
			return true, true, false
		}
	}
	return false, false, false
}

// candidate is one property value a target cell matched.
type candidate struct {
	family         string
	transformation string
	metric         string
	similarity     float64
	// lnIndex is the LiteralNormalization annotation the match used, -1 for
	// string matches.
	lnIndex int
}

// matchNumeric compares a property value with every numeric reading of a
// cell.
func matchNumeric(value float64, readings []table.Indexed, threshold float64) []candidate {
	var out []candidate
	for _, r := range readings {
		n, ok := r.Body.(*table.Numeric)
		if !ok {
			continue
		}
		if s := WeightedDifference(value, n.Number); s >= threshold {
			out = append(out, candidate{
				family:         FamilyNumeric,
				transformation: "number",
				metric:         MetricWeightedDifference,
				similarity:     s,
				lnIndex:        r.Index,
			})
		}
	}
	return out
}

// matchValueAndUnit compares a property value with the raw and the
// base-unit value of every quantity reading of a cell.
func matchValueAndUnit(value float64, readings []table.Indexed, threshold float64) []candidate {
	var out []candidate
	for _, r := range readings {
		q, ok := r.Body.(*table.ValueAndUnit)
		if !ok {
			continue
		}
		if s := WeightedDifference(value, q.Value); s >= threshold {
			out = append(out, candidate{
				family:         FamilyValueAndUnit,
				transformation: "raw",
				metric:         MetricWeightedDifference,
				similarity:     s,
				lnIndex:        r.Index,
			})
		}
		if q.ValueNormalized == q.Value {
			continue
		}
		if s := WeightedDifference(value, q.ValueNormalized); s >= threshold {
			out = append(out, candidate{
				family:         FamilyValueAndUnit,
				transformation: "normalized",
				metric:         MetricWeightedDifference,
				similarity:     s,
				lnIndex:        r.Index,
			})
		}
	}
	return out
}

// DateRenderings returns the canonical string forms of a date reading,
// zero-padded first.
func DateRenderings(d *table.Date) []string {
	var padded, plain string
	switch {
	case d.Month == nil:
		padded = strconv.Itoa(d.Year)
		plain = padded
	case d.DayOfMonth == nil:
		padded = fmt.Sprintf("%d-%02d", d.Year, *d.Month)
		plain = fmt.Sprintf("%d-%d", d.Year, *d.Month)
	default:
		padded = fmt.Sprintf("%d-%02d-%02d", d.Year, *d.Month, *d.DayOfMonth)
		plain = fmt.Sprintf("%d-%d-%d", d.Year, *d.Month, *d.DayOfMonth)
	}
	if padded == plain {
		return []string{padded}
	}
	return []string{padded, plain}
}

func matchDate(value string, readings []table.Indexed) []candidate {
	var out []candidate
	for _, r := range readings {
		d, ok := r.Body.(*table.Date)
		if !ok {
			continue
		}
		for i, rendered := range DateRenderings(d) {
			if rendered != value {
				continue
			}
			transformation := "padded"
			if i > 0 {
				transformation = "unpadded"
			}
			out = append(out, candidate{
				family:         FamilyDate,
				transformation: transformation,
				metric:         MetricExact,
				similarity:     1,
				lnIndex:        r.Index,
			})
		}
	}
	return out
}

var parenthetical = regexp.MustCompile(`\([^()]*\)|\[[^\[\]]*\]`)

func lower(s string) string { return cases.Lower(language.Und).String(s) }

func stripPunct(s string) string {
	return strings.Join(strings.FieldsFunc(strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, s), unicode.IsSpace), " ")
}

// stringStage is one step of the string transformation escalation.
type stringStage struct {
	name  string
	apply func(string) string
}

// StringStages are applied in order, each more aggressive than the last.
var stringStages = []stringStage{
	{"identity", func(s string) string { return s }},
	{"lower", lower},
	{"lower_strip_punctuation", func(s string) string { return stripPunct(lower(s)) }},
	{"lower_strip_parentheses_punctuation", func(s string) string {
		return stripPunct(parenthetical.ReplaceAllString(lower(s), " "))
	}},
}

// matchString runs the transformation stages over the cell content and the
// property value. A stage is kept when it reaches threshold and beats the
// weakest stage kept before it.
func matchString(content, value string, threshold float64) []candidate {
	var out []candidate
	minKept := -1.0
	for _, stage := range stringStages {
		s := index.Similarity(stage.apply(content), stage.apply(value))
		if s < threshold {
			continue
		}
		if minKept >= 0 && s <= minKept {
			continue
		}
		out = append(out, candidate{
			family:         FamilyString,
			transformation: stage.name,
			metric:         MetricLevenshtein,
			similarity:     s,
			lnIndex:        -1,
		})
		if minKept < 0 || s < minKept {
			minKept = s
		}
	}
	return out
}
