package entity

// CostEntry is the derived effective cost of one (ingredient, unit) pair.
// Never persisted; rebuilt from the full ledger on demand.
type CostEntry struct {
	Ingredient    string  `json:"ingredient"` // normalized key form
	Unit          string  `json:"unit"`
	UnitCostNet   float64 `json:"unit_cost_net"`
	UsableYield   float64 `json:"usable_yield"`
	EffectiveCost float64 `json:"effective_cost"` // unit_cost_net / usable_yield
}

// PricedItem is one row of the suggested price list.
// SuggestedPrice is nil when no recipe line could be costed; that is distinct
// from a computed price of zero.
type PricedItem struct {
	Category       string   `json:"category"`
	DisplayName    string   `json:"display_name"`
	Margin         float64  `json:"margin"`
	TaxRate        float64  `json:"tax_rate"`
	IngredientCost float64  `json:"ingredient_cost"`
	SuggestedPrice *float64 `json:"suggested_price,omitempty"`
	HasMissingCost bool     `json:"has_missing_cost"`
}
