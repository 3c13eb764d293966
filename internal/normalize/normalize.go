// Package normalize holds the locale-aware numeric, unit and key transforms
// shared by the extractor, the ledger and the costing layer.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diegoandradesramos-hub/pvp/constants"
)

// ParseDecimal converts a locale-formatted numeric token to a float.
// Currency marks are stripped first. When the token carries exactly one comma
// preceded by one or more dots ("1.234,56", "1.234.567,89") the dots are
// thousands separators; otherwise a comma is simply the decimal separator
// ("12,50").
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, mark := range []string{"€", "EUR", "$"} {
		s = strings.ReplaceAll(s, mark, "")
	}
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && strings.Count(s, ".") >= 1 && strings.LastIndex(s, ".") < strings.Index(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable decimal %q", s)
	}
	return v, nil
}

// Unit maps a raw unit token to its canonical form. Lookup is exact after
// lowercasing and stripping periods; unknown tokens pass through unchanged
// and become their own unit key.
func Unit(token string) string {
	u := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(token)), ".", "")
	if canonical, ok := constants.UnitVocabulary[u]; ok {
		return canonical
	}
	return u
}

// ToBase collapses sub-units into base units: grams to kilograms and
// milliliters to liters. Idempotent; everything else passes through.
// Must run exactly once, right after extraction, before persistence.
func ToBase(qty float64, unit string) (float64, string) {
	switch unit {
	case constants.UnitGram:
		return qty / 1000.0, constants.UnitKilogram
	case constants.UnitMillilit:
		return qty / 1000.0, constants.UnitLiter
	default:
		return qty, unit
	}
}

// Key produces the comparison key used wherever ingredient or unit strings
// meet: trimmed, lowercased, internal whitespace runs collapsed to one space.
func Key(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
