package constants

// Canonical units stored in the purchase ledger. Mass is kept in kilograms,
// volume in liters; countable goods use "unit".
const (
	UnitKilogram = "kg"
	UnitGram     = "g"
	UnitLiter    = "L"
	UnitMillilit = "ml"
	UnitPiece    = "unit"
)

// UnitVocabulary maps the abbreviations seen on supplier invoices to their
// canonical unit. Lookup is exact-match after lowercasing and stripping
// trailing periods; tokens outside the vocabulary pass through unchanged.
var UnitVocabulary = map[string]string{
	"kg":       UnitKilogram,
	"kgr":      UnitKilogram,
	"kgs":      UnitKilogram,
	"g":        UnitGram,
	"gr":       UnitGram,
	"grs":      UnitGram,
	"l":        UnitLiter,
	"lt":       UnitLiter,
	"lts":      UnitLiter,
	"ml":       UnitMillilit,
	"ud":       UnitPiece,
	"uds":      UnitPiece,
	"u":        UnitPiece,
	"unidad":   UnitPiece,
	"unidades": UnitPiece,
	"unit":     UnitPiece,
}

// UnitTokenPattern is the alternation of raw unit tokens accepted by the line
// extractor. Callers must follow it with \b; the boundary is what keeps a
// short alternative like "kg" from matching inside "kgs".
const UnitTokenPattern = `(?:kg|kgr|kgs|g|gr|grs|l|lt|lts|ml|ud|uds|u|unidad|unidades|unit)`
