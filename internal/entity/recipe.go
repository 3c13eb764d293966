package entity

// RecipeItem is one sellable menu item.
type RecipeItem struct {
	ItemKey     string   `json:"item_key"`
	Category    string   `json:"category"`
	DisplayName string   `json:"display_name"`
	TaxRate     *float64 `json:"tax_rate,omitempty"` // nil -> engine default
}

// RecipeLine is one ingredient requirement of a menu item; many per item.
type RecipeLine struct {
	ItemKey       string  `json:"item_key"`
	Ingredient    string  `json:"ingredient"`
	Unit          string  `json:"unit"`
	QtyPerPortion float64 `json:"qty_per_portion"`
}

// MarginRule sets the target margin for a menu category. Margin is a fraction
// of the pre-tax sale price, not a markup on cost.
type MarginRule struct {
	Category     string  `json:"category"`
	TargetMargin float64 `json:"target_margin"`
}
