package normalize

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12,50", 12.50},
		{"12.50", 12.50},
		{"1.234,56", 1234.56},
		{"1.234.567,89", 1234567.89},
		{"1234.56", 1234.56},
		{"25,00€", 25.00},
		{"18,00 EUR", 18.00},
		{"7", 7},
		{" 3,5 ", 3.5},
	}
	for _, c := range cases {
		got, err := ParseDecimal(c.in)
		if err != nil {
			t.Errorf("ParseDecimal(%q): unexpected error %v", c.in, err)
			continue
		}
		if !almostEqual(got, c.want) {
			t.Errorf("ParseDecimal(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDecimalCommaDotConvention(t *testing.T) {
	// Comma-decimal and dot-decimal renditions of the same value agree.
	a, err := ParseDecimal("1.234,56")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseDecimal("1234.56")
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(a, b) {
		t.Errorf("comma-decimal %v != dot-decimal %v", a, b)
	}
}

func TestParseDecimalRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "12,3,4", "12..5", "kg"} {
		if _, err := ParseDecimal(in); err == nil {
			t.Errorf("ParseDecimal(%q): want error, got none", in)
		}
	}
}

func TestUnit(t *testing.T) {
	cases := map[string]string{
		"kg":       "kg",
		"Kgs":      "kg",
		"KGR":      "kg",
		"gr":       "g",
		"grs.":     "g",
		"l":        "L",
		"Lt":       "L",
		"lts":      "L",
		"ml":       "ml",
		"ud":       "unit",
		"Unidades": "unit",
		"u.":       "unit",
		"kge":      "kge", // unknown tokens pass through as their own unit
		"caja":     "caja",
	}
	for in, want := range cases {
		if got := Unit(in); got != want {
			t.Errorf("Unit(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToBase(t *testing.T) {
	qty, unit := ToBase(500, "g")
	if !almostEqual(qty, 0.5) || unit != "kg" {
		t.Errorf("ToBase(500, g) = %v %q, want 0.5 kg", qty, unit)
	}
	qty, unit = ToBase(250, "ml")
	if !almostEqual(qty, 0.25) || unit != "L" {
		t.Errorf("ToBase(250, ml) = %v %q, want 0.25 L", qty, unit)
	}
	qty, unit = ToBase(3, "unit")
	if !almostEqual(qty, 3) || unit != "unit" {
		t.Errorf("ToBase(3, unit) = %v %q, want 3 unit", qty, unit)
	}
}

func TestToBaseIdempotent(t *testing.T) {
	// Applying ToBase to an already-base quantity is a no-op.
	q1, u1 := ToBase(1500, "g")
	q2, u2 := ToBase(q1, u1)
	if q1 != q2 || u1 != u2 {
		t.Errorf("ToBase not idempotent: (%v,%q) -> (%v,%q)", q1, u1, q2, u2)
	}
}

func TestKey(t *testing.T) {
	cases := map[string]string{
		"  Tomate  Pera ":  "tomate pera",
		"TOMATE\tPERA":     "tomate pera",
		"tomate pera":      "tomate pera",
		"Cebolla   dulce ": "cebolla dulce",
	}
	for in, want := range cases {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}
