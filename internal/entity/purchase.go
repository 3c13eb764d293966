package entity

// PurchaseLine is one ledger row: a single invoice line after extraction,
// normalization and per-invoice aggregation. Rows are immutable once appended;
// ID reflects append order and is what "most recent" means for costing.
type PurchaseLine struct {
	ID             int64   `json:"id"`
	Date           string  `json:"date"` // free text as printed on the invoice, not guaranteed parseable
	Supplier       string  `json:"supplier"`
	Ingredient     string  `json:"ingredient"`
	Quantity       float64 `json:"quantity"` // always in base units (kg, L, unit)
	Unit           string  `json:"unit"`
	TotalCostGross float64 `json:"total_cost_gross"` // includes tax
	TaxRate        float64 `json:"tax_rate"`         // fraction, e.g. 0.10
	InvoiceNo      string  `json:"invoice_no"`
	Notes          string  `json:"notes"`
	Source         string  `json:"source"` // constants.SourceAuto | constants.SourceManual
}

// YieldRecord captures shrinkage: the usable fraction of a purchased unit
// after trimming and preparation loss. Keyed by the same normalized
// (ingredient, unit) transform as the ledger.
type YieldRecord struct {
	Ingredient  string  `json:"ingredient"`
	Unit        string  `json:"unit"`
	UsableYield float64 `json:"usable_yield"` // in (0,1], 1.0 = no loss
}
