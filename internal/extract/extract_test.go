package extract

import (
	"math"
	"math/rand"
	"testing"

	"github.com/diegoandradesramos-hub/pvp/internal/normalize"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLinesForwardOrdering(t *testing.T) {
	got := Lines("Tomate 10 kg caja grande 25,00€")
	if len(got) != 1 {
		t.Fatalf("want 1 line, got %d: %+v", len(got), got)
	}
	l := got[0]
	if l.Ingredient != "Tomate" {
		t.Errorf("ingredient = %q, want Tomate", l.Ingredient)
	}
	if !almostEqual(l.Quantity, 10) || l.Unit != "kg" {
		t.Errorf("qty/unit = %v %q, want 10 kg", l.Quantity, l.Unit)
	}
	if !almostEqual(l.TotalGross, 25.00) {
		t.Errorf("total = %v, want 25.00", l.TotalGross)
	}
}

func TestLinesTotalBeforeQuantity(t *testing.T) {
	// Pattern B recovers the same fields when the total is printed first.
	got := Lines("Cebolla 18,00€ ref A-12 6 kg")
	if len(got) != 1 {
		t.Fatalf("want 1 line, got %d: %+v", len(got), got)
	}
	l := got[0]
	if l.Ingredient != "Cebolla" {
		t.Errorf("ingredient = %q, want Cebolla", l.Ingredient)
	}
	if !almostEqual(l.Quantity, 6) || l.Unit != "kg" {
		t.Errorf("qty/unit = %v %q, want 6 kg", l.Quantity, l.Unit)
	}
	if !almostEqual(l.TotalGross, 18.00) {
		t.Errorf("total = %v, want 18.00", l.TotalGross)
	}
}

func TestLinesConvertsToBaseUnits(t *testing.T) {
	got := Lines("Azafran 500 gr lote A 12,00€")
	if len(got) != 1 {
		t.Fatalf("want 1 line, got %d: %+v", len(got), got)
	}
	if !almostEqual(got[0].Quantity, 0.5) || got[0].Unit != "kg" {
		t.Errorf("qty/unit = %v %q, want 0.5 kg", got[0].Quantity, got[0].Unit)
	}
}

func TestLinesSkipsJunk(t *testing.T) {
	text := "ab\n\nTOTAL FACTURA\n----\nGracias por su compra\n12/05/2024\n"
	if got := Lines(text); len(got) != 0 {
		t.Errorf("want no lines from junk, got %+v", got)
	}
}

func TestLinesShortLineGateCountsRunes(t *testing.T) {
	// four runes but nine bytes; the length gate measures characters
	if got := Lines("añúí\n"); len(got) != 0 {
		t.Errorf("want no lines, got %+v", got)
	}
}

func TestLinesEmptyTextYieldsNoMatches(t *testing.T) {
	if got := Lines(""); len(got) != 0 {
		t.Errorf("want empty result, got %+v", got)
	}
}

func TestAggregateSumsByKey(t *testing.T) {
	lines := []Line{
		{Ingredient: "Tomate Pera", Quantity: 10, Unit: "kg", TotalGross: 25},
		{Ingredient: "tomate  pera", Quantity: 5, Unit: "kg", TotalGross: 12.5},
		{Ingredient: "Tomate Pera", Quantity: 3, Unit: "unit", TotalGross: 4},
	}
	got := Aggregate(lines)
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d: %+v", len(got), got)
	}
	if !almostEqual(got[0].Quantity, 15) || !almostEqual(got[0].TotalGross, 37.5) {
		t.Errorf("kg row = %+v, want qty 15 total 37.5", got[0])
	}
	if got[1].Unit != "unit" || !almostEqual(got[1].Quantity, 3) {
		t.Errorf("unit row = %+v, want qty 3", got[1])
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	lines := []Line{
		{Ingredient: "Tomate", Quantity: 10, Unit: "kg", TotalGross: 25},
		{Ingredient: "Cebolla", Quantity: 6, Unit: "kg", TotalGross: 18},
		{Ingredient: "tomate", Quantity: 2, Unit: "kg", TotalGross: 5},
		{Ingredient: "Aceite", Quantity: 5, Unit: "L", TotalGross: 30},
	}
	want := totalsByKey(Aggregate(lines))

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]Line, len(lines))
		copy(shuffled, lines)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := totalsByKey(Aggregate(shuffled))
		if len(got) != len(want) {
			t.Fatalf("shuffle %d: key count %d != %d", i, len(got), len(want))
		}
		for k, w := range want {
			g, ok := got[k]
			if !ok || !almostEqual(g[0], w[0]) || !almostEqual(g[1], w[1]) {
				t.Fatalf("shuffle %d: key %v = %v, want %v", i, k, g, w)
			}
		}
	}
}

func totalsByKey(lines []Line) map[[2]string][2]float64 {
	m := make(map[[2]string][2]float64)
	for _, l := range lines {
		k := [2]string{normalize.Key(l.Ingredient), l.Unit}
		v := m[k]
		m[k] = [2]float64{v[0] + l.Quantity, v[1] + l.TotalGross}
	}
	return m
}
