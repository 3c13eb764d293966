// Package pricing rolls ingredient costs up through recipes into a suggested
// sale price (PVP) per menu item.
package pricing

import (
	"log/slog"
	"sort"

	"github.com/diegoandradesramos-hub/pvp/internal/costmap"
	"github.com/diegoandradesramos-hub/pvp/internal/entity"
)

// Defaults applied when an item or category carries no explicit value.
const (
	DefaultMargin  = 0.70
	DefaultTaxRate = 0.10
)

type Engine struct {
	Margin  float64 // fallback target margin, fraction of pre-tax price
	TaxRate float64 // fallback tax rate
	Logger  *slog.Logger
}

func NewEngine(margin, taxRate float64, logger *slog.Logger) *Engine {
	if margin <= 0 || margin >= 1 {
		margin = DefaultMargin
	}
	if taxRate < 0 {
		taxRate = DefaultTaxRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{Margin: margin, TaxRate: taxRate, Logger: logger}
}

// Suggest prices every menu item. Margin is a fraction of the pre-tax price:
// priceExcl = cost / (1 - margin), then tax goes on top. A recipe line whose
// (ingredient, unit) key is absent from the cost map flags the item and is
// skipped; the item still gets a partial price from the lines that resolved.
// An item with no resolvable cost at all gets no price rather than 0.00.
// Output is sorted by (category, display name), ordinal ascending.
func (e *Engine) Suggest(items []entity.RecipeItem, lines []entity.RecipeLine, costs costmap.Map, rules []entity.MarginRule) []entity.PricedItem {
	marginByCategory := make(map[string]float64, len(rules))
	for _, r := range rules {
		marginByCategory[r.Category] = r.TargetMargin
	}
	linesByItem := make(map[string][]entity.RecipeLine, len(items))
	for _, l := range lines {
		linesByItem[l.ItemKey] = append(linesByItem[l.ItemKey], l)
	}

	out := make([]entity.PricedItem, 0, len(items))
	for _, item := range items {
		margin, ok := marginByCategory[item.Category]
		if !ok {
			margin = e.Margin
		}
		taxRate := e.TaxRate
		if item.TaxRate != nil {
			taxRate = *item.TaxRate
		}

		var cost float64
		missing := false
		for _, l := range linesByItem[item.ItemKey] {
			c, ok := costs.Lookup(l.Ingredient, l.Unit)
			if !ok {
				missing = true
				continue
			}
			cost += c.EffectiveCost * l.QtyPerPortion
		}

		priced := entity.PricedItem{
			Category:       item.Category,
			DisplayName:    item.DisplayName,
			Margin:         margin,
			TaxRate:        taxRate,
			IngredientCost: cost,
			HasMissingCost: missing,
		}
		if cost > 0 && margin < 1 {
			pvp := cost / (1 - margin) * (1 + taxRate)
			priced.SuggestedPrice = &pvp
		}
		if missing {
			e.Logger.Debug("pricing.partial", "item", item.ItemKey, "cost", cost)
		}
		out = append(out, priced)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out
}
