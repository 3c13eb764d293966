// Package importer loads menu documents (recipes, yields, margin rules) from
// JSON, validating them against a schema before anything touches the store.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/diegoandradesramos-hub/pvp/internal/entity"
	"github.com/diegoandradesramos-hub/pvp/internal/normalize"
	"github.com/diegoandradesramos-hub/pvp/internal/repository"
)

var compiledSchema = jsonschema.MustCompileString("menu.json", menuSchema)

// Document is the operator-facing menu upload shape.
type Document struct {
	Recipes []RecipeDoc        `json:"recipes"`
	Yields  []YieldDoc         `json:"yields"`
	Margins []entity.MarginRule `json:"margins"`
}

type RecipeDoc struct {
	ItemKey     string    `json:"item_key"`
	Category    string    `json:"category"`
	DisplayName string    `json:"display_name"`
	TaxRate     *float64  `json:"tax_rate,omitempty"`
	Lines       []LineDoc `json:"lines"`
}

type LineDoc struct {
	Ingredient    string  `json:"ingredient"`
	Unit          string  `json:"unit"`
	QtyPerPortion float64 `json:"qty_per_portion"`
}

type YieldDoc struct {
	Ingredient  string  `json:"ingredient"`
	Unit        string  `json:"unit"`
	UsableYield float64 `json:"usable_yield"`
}

// Result summarizes what an import wrote.
type Result struct {
	Items   int `json:"items"`
	Lines   int `json:"lines"`
	Yields  int `json:"yields"`
	Margins int `json:"margins"`
}

type Service struct {
	menu    repository.MenuRepository
	yields  repository.YieldRepository
	margins repository.MarginRepository
	logger  *slog.Logger
}

func NewService(menu repository.MenuRepository, yields repository.YieldRepository, margins repository.MarginRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{menu: menu, yields: yields, margins: margins, logger: logger}
}

// Import validates and applies one menu document. Recipes replace the whole
// menu; yields and margins upsert. Recipe-line quantities are collapsed to
// base units here so they join against ledger keys.
func (s *Service) Import(ctx context.Context, raw []byte) (Result, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Result{}, fmt.Errorf("parse menu document: %w", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return Result{}, fmt.Errorf("menu document does not match schema: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Result{}, fmt.Errorf("decode menu document: %w", err)
	}

	var res Result
	if len(doc.Recipes) > 0 {
		items := make([]entity.RecipeItem, 0, len(doc.Recipes))
		var lines []entity.RecipeLine
		for _, r := range doc.Recipes {
			items = append(items, entity.RecipeItem{
				ItemKey:     r.ItemKey,
				Category:    r.Category,
				DisplayName: r.DisplayName,
				TaxRate:     r.TaxRate,
			})
			for _, l := range r.Lines {
				qty, unit := normalize.ToBase(l.QtyPerPortion, normalize.Unit(l.Unit))
				lines = append(lines, entity.RecipeLine{
					ItemKey:       r.ItemKey,
					Ingredient:    l.Ingredient,
					Unit:          unit,
					QtyPerPortion: qty,
				})
			}
		}
		if err := s.menu.Replace(ctx, items, lines); err != nil {
			return res, err
		}
		res.Items, res.Lines = len(items), len(lines)
	}

	for _, y := range doc.Yields {
		// yield is dimensionless, only the unit key needs collapsing
		_, unit := normalize.ToBase(0, normalize.Unit(y.Unit))
		rec := entity.YieldRecord{
			Ingredient:  y.Ingredient,
			Unit:        unit,
			UsableYield: y.UsableYield,
		}
		if err := s.yields.Upsert(ctx, rec); err != nil {
			return res, err
		}
		res.Yields++
	}
	for _, m := range doc.Margins {
		if err := s.margins.Upsert(ctx, m); err != nil {
			return res, err
		}
		res.Margins++
	}

	s.logger.Info("menu.import.ok",
		"items", res.Items, "lines", res.Lines,
		"yields", res.Yields, "margins", res.Margins,
	)
	return res, nil
}
