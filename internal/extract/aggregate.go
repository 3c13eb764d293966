package extract

import "github.com/diegoandradesramos-hub/pvp/internal/normalize"

// Aggregate collapses the matched lines of one invoice to at most one row per
// normalized (ingredient, unit) key, summing quantity and gross total.
// A split delivery may put the same ingredient on several lines; costing wants
// one price signal per ingredient per invoice. Totals are order-independent;
// the surviving row keeps the first-seen ingredient spelling.
func Aggregate(lines []Line) []Line {
	type key struct{ ingredient, unit string }
	index := make(map[key]int, len(lines))
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		k := key{normalize.Key(l.Ingredient), l.Unit}
		if i, ok := index[k]; ok {
			out[i].Quantity += l.Quantity
			out[i].TotalGross += l.TotalGross
			continue
		}
		index[k] = len(out)
		out = append(out, l)
	}
	return out
}
