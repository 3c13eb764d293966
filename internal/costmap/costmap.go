// Package costmap derives the effective per-unit ingredient cost from the
// purchase ledger and the yield table.
package costmap

import (
	"sort"

	"github.com/diegoandradesramos-hub/pvp/internal/entity"
	"github.com/diegoandradesramos-hub/pvp/internal/normalize"
)

// Key addresses one costed ingredient. Both fields are in normalized key form.
type Key struct {
	Ingredient string
	Unit       string
}

// Map is the derived cost lookup. It is rebuilt in full from the ledger on
// every call; ledgers here are a few thousand rows at most and a recompute is
// cheaper than keeping an incremental cache honest.
type Map map[Key]entity.CostEntry

// Build walks the ledger in append order and keeps, per (ingredient, unit)
// key, the net unit cost of the last appended row: the suggested price should
// reflect current replacement cost, not a historical average. Yields join on
// the same key; a missing yield means no shrinkage (1.0).
//
// Rows that cannot produce a defined cost are excluded rather than reported:
// zero quantity and zero yield both mean "no value", never infinity.
func Build(ledger []entity.PurchaseLine, yields []entity.YieldRecord) Map {
	yieldByKey := make(map[Key]float64, len(yields))
	for _, y := range yields {
		yieldByKey[Key{normalize.Key(y.Ingredient), normalize.Key(y.Unit)}] = y.UsableYield
	}

	m := make(Map)
	for _, row := range ledger {
		if row.Quantity == 0 {
			continue
		}
		k := Key{normalize.Key(row.Ingredient), normalize.Key(row.Unit)}
		unitCostNet := row.TotalCostGross / (1 + row.TaxRate) / row.Quantity

		usableYield, ok := yieldByKey[k]
		if !ok {
			usableYield = 1.0
		}
		if usableYield == 0 {
			continue
		}
		m[k] = entity.CostEntry{
			Ingredient:    k.Ingredient,
			Unit:          k.Unit,
			UnitCostNet:   unitCostNet,
			UsableYield:   usableYield,
			EffectiveCost: unitCostNet / usableYield,
		}
	}
	return m
}

// Lookup resolves a raw (ingredient, unit) pair through the key transform.
func (m Map) Lookup(ingredient, unit string) (entity.CostEntry, bool) {
	e, ok := m[Key{normalize.Key(ingredient), normalize.Key(unit)}]
	return e, ok
}

// Entries returns the map contents sorted by (ingredient, unit).
func (m Map) Entries() []entity.CostEntry {
	out := make([]entity.CostEntry, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ingredient != out[j].Ingredient {
			return out[i].Ingredient < out[j].Ingredient
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}
