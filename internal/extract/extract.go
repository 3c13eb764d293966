// Package extract turns raw invoice text into structured purchase lines.
//
// Invoice text rendered from a PDF text layer or an OCR transcript loses
// column alignment, so field order is not reliable. Two complementary line
// grammars are tried in priority order; first match wins, no scoring.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/diegoandradesramos-hub/pvp/constants"
	"github.com/diegoandradesramos-hub/pvp/internal/normalize"
)

// Line is one extracted invoice line, already unit-normalized. Quantity is in
// base units; TotalGross includes tax.
type Line struct {
	Ingredient string  `json:"ingredient"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	TotalGross float64 `json:"total_cost_gross"`
}

// Pattern A: description, quantity, unit, then (after anything) the line total.
// Pattern B: description, line total, then (after anything) quantity and unit.
// B catches invoices that print the total before the quantity column.
var (
	patternA = regexp.MustCompile(`(?i)(?P<desc>[^0-9]{3,}?)\s+(?P<qty>\d+(?:[.,]\d+)?)\s*(?P<unit>` + constants.UnitTokenPattern + `)\b.*?(?P<total>\d+(?:[.,]\d+)?)\s*€?`)
	patternB = regexp.MustCompile(`(?i)(?P<desc>[^0-9]{3,}?)\s+(?P<total>\d+(?:[.,]\d+)?)\s*€?\s+.*?(?P<qty>\d+(?:[.,]\d+)?)\s*(?P<unit>` + constants.UnitTokenPattern + `)\b`)

	patterns = []*regexp.Regexp{patternA, patternB}
)

// Lines scans a text blob line by line and returns every line that matches one
// of the two grammars. Lines shorter than 5 characters, unmatched lines and
// matches with unparseable numbers are silently skipped: a wrong number in the
// ledger is worse than a missing line.
func Lines(text string) []Line {
	var out []Line
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if utf8.RuneCountInString(line) < 5 {
			continue
		}
		if l, ok := matchLine(line); ok {
			out = append(out, l)
		}
	}
	return out
}

func matchLine(line string) (Line, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := strings.Trim(strings.Join(strings.Fields(m[re.SubexpIndex("desc")]), " "), " .:-")
		qty, err := normalize.ParseDecimal(m[re.SubexpIndex("qty")])
		if err != nil {
			return Line{}, false
		}
		total, err := normalize.ParseDecimal(m[re.SubexpIndex("total")])
		if err != nil {
			return Line{}, false
		}
		unit := normalize.Unit(m[re.SubexpIndex("unit")])
		qty, unit = normalize.ToBase(qty, unit)
		return Line{Ingredient: desc, Quantity: qty, Unit: unit, TotalGross: total}, true
	}
	return Line{}, false
}
