package pricing

import (
	"math"
	"testing"

	"github.com/diegoandradesramos-hub/pvp/internal/costmap"
	"github.com/diegoandradesramos-hub/pvp/internal/entity"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ptr(v float64) *float64 { return &v }

func costsOf(entries ...entity.CostEntry) costmap.Map {
	m := make(costmap.Map, len(entries))
	for _, e := range entries {
		m[costmap.Key{Ingredient: e.Ingredient, Unit: e.Unit}] = e
	}
	return m
}

func TestSuggestMarginAndTaxContract(t *testing.T) {
	// cost 3.00, margin 0.70, tax 0.10:
	// price excl = 3.00/0.30 = 10.00, PVP = 11.00.
	items := []entity.RecipeItem{
		{ItemKey: "gazpacho", Category: "Entrantes", DisplayName: "Gazpacho", TaxRate: ptr(0.10)},
	}
	lines := []entity.RecipeLine{
		{ItemKey: "gazpacho", Ingredient: "tomate", Unit: "kg", QtyPerPortion: 1.5},
	}
	costs := costsOf(entity.CostEntry{Ingredient: "tomate", Unit: "kg", EffectiveCost: 2.0})
	rules := []entity.MarginRule{{Category: "Entrantes", TargetMargin: 0.70}}

	got := NewEngine(DefaultMargin, DefaultTaxRate, nil).Suggest(items, lines, costs, rules)
	if len(got) != 1 {
		t.Fatalf("want 1 item, got %d", len(got))
	}
	p := got[0]
	if !almostEqual(p.IngredientCost, 3.0) {
		t.Errorf("ingredient cost = %v, want 3.0", p.IngredientCost)
	}
	if p.SuggestedPrice == nil {
		t.Fatal("suggested price missing")
	}
	if !almostEqual(*p.SuggestedPrice, 11.0) {
		t.Errorf("suggested price = %v, want 11.00", *p.SuggestedPrice)
	}
	if p.HasMissingCost {
		t.Error("has_missing_cost should be false")
	}
}

func TestSuggestDefaultsApply(t *testing.T) {
	// No margin rule for the category, no tax on the item.
	items := []entity.RecipeItem{
		{ItemKey: "cafe", Category: "Cafes", DisplayName: "Cafe solo"},
	}
	lines := []entity.RecipeLine{
		{ItemKey: "cafe", Ingredient: "cafe grano", Unit: "kg", QtyPerPortion: 0.009},
	}
	costs := costsOf(entity.CostEntry{Ingredient: "cafe grano", Unit: "kg", EffectiveCost: 100.0})

	got := NewEngine(DefaultMargin, DefaultTaxRate, nil).Suggest(items, lines, costs, nil)
	p := got[0]
	if !almostEqual(p.Margin, 0.70) || !almostEqual(p.TaxRate, 0.10) {
		t.Errorf("margin/tax = %v/%v, want defaults 0.70/0.10", p.Margin, p.TaxRate)
	}
	if p.SuggestedPrice == nil {
		t.Fatal("suggested price missing")
	}
	if !almostEqual(*p.SuggestedPrice, 0.9/0.3*1.1) {
		t.Errorf("suggested price = %v", *p.SuggestedPrice)
	}
}

func TestSuggestPartialCosting(t *testing.T) {
	items := []entity.RecipeItem{
		{ItemKey: "ensalada", Category: "Entrantes", DisplayName: "Ensalada", TaxRate: ptr(0.10)},
	}
	lines := []entity.RecipeLine{
		{ItemKey: "ensalada", Ingredient: "tomate", Unit: "kg", QtyPerPortion: 0.5},
		{ItemKey: "ensalada", Ingredient: "queso feta", Unit: "kg", QtyPerPortion: 0.1},
	}
	costs := costsOf(entity.CostEntry{Ingredient: "tomate", Unit: "kg", EffectiveCost: 2.0})

	got := NewEngine(DefaultMargin, DefaultTaxRate, nil).Suggest(items, lines, costs, nil)
	p := got[0]
	if !p.HasMissingCost {
		t.Error("missing cost-map entry must flag the item")
	}
	if !almostEqual(p.IngredientCost, 1.0) {
		t.Errorf("ingredient cost = %v, want 1.0 from the resolved line only", p.IngredientCost)
	}
	if p.SuggestedPrice == nil {
		t.Error("partial costing still yields a price when one line resolved")
	}
}

func TestSuggestNoCostNoPrice(t *testing.T) {
	items := []entity.RecipeItem{
		{ItemKey: "agua", Category: "Bebidas", DisplayName: "Agua"},
	}
	lines := []entity.RecipeLine{
		{ItemKey: "agua", Ingredient: "agua mineral", Unit: "unit", QtyPerPortion: 1},
	}
	got := NewEngine(DefaultMargin, DefaultTaxRate, nil).Suggest(items, lines, costmap.Map{}, nil)
	p := got[0]
	if !p.HasMissingCost {
		t.Error("unresolvable line must flag the item")
	}
	if p.SuggestedPrice != nil {
		t.Errorf("zero ingredient cost must yield no price, got %v", *p.SuggestedPrice)
	}
	if !almostEqual(p.IngredientCost, 0) {
		t.Errorf("ingredient cost = %v, want 0", p.IngredientCost)
	}
}

func TestSuggestSortedByCategoryThenName(t *testing.T) {
	items := []entity.RecipeItem{
		{ItemKey: "b1", Category: "Postres", DisplayName: "Tarta"},
		{ItemKey: "a2", Category: "Entrantes", DisplayName: "Gazpacho"},
		{ItemKey: "a1", Category: "Entrantes", DisplayName: "Croquetas"},
	}
	got := NewEngine(DefaultMargin, DefaultTaxRate, nil).Suggest(items, nil, costmap.Map{}, nil)
	want := []string{"Croquetas", "Gazpacho", "Tarta"}
	for i, name := range want {
		if got[i].DisplayName != name {
			t.Fatalf("position %d = %q, want %q", i, got[i].DisplayName, name)
		}
	}
	if got[0].Category != "Entrantes" || got[2].Category != "Postres" {
		t.Error("categories out of order")
	}
}
