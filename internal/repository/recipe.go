package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/diegoandradesramos-hub/pvp/internal/entity"
)

// MenuRepository stores recipe items and their ingredient lines. The menu is
// replaced wholesale on import; per-item edits are not a thing here.
type MenuRepository interface {
	Replace(ctx context.Context, items []entity.RecipeItem, lines []entity.RecipeLine) error
	ListItems(ctx context.Context) ([]entity.RecipeItem, error)
	ListLines(ctx context.Context) ([]entity.RecipeLine, error)
}

type menuRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewMenuRepository(db *DB, logger *slog.Logger) MenuRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &menuRepository{db: db, logger: logger}
}

func (r *menuRepository) Replace(ctx context.Context, items []entity.RecipeItem, lines []entity.RecipeLine) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin menu replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM recipe_lines`, `DELETE FROM recipe_items`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear menu: %w", err)
		}
	}

	insertItem := r.db.rebind(`INSERT INTO recipe_items (item_key, category, display_name, tax_rate) VALUES (?, ?, ?, ?)`)
	for _, it := range items {
		var taxRate sql.NullFloat64
		if it.TaxRate != nil {
			taxRate = sql.NullFloat64{Float64: *it.TaxRate, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, insertItem, it.ItemKey, it.Category, it.DisplayName, taxRate); err != nil {
			return fmt.Errorf("insert item %q: %w", it.ItemKey, err)
		}
	}

	insertLine := r.db.rebind(`INSERT INTO recipe_lines (item_key, ingredient, unit, qty_per_portion) VALUES (?, ?, ?, ?)`)
	for _, l := range lines {
		if _, err := tx.ExecContext(ctx, insertLine, l.ItemKey, l.Ingredient, l.Unit, l.QtyPerPortion); err != nil {
			return fmt.Errorf("insert line for %q: %w", l.ItemKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit menu replace: %w", err)
	}
	r.logger.Info("menu.replace", "items", len(items), "lines", len(lines))
	return nil
}

func (r *menuRepository) ListItems(ctx context.Context) ([]entity.RecipeItem, error) {
	rows, err := r.db.SQL.QueryContext(ctx, `SELECT item_key, category, display_name, tax_rate FROM recipe_items`)
	if err != nil {
		r.logger.Error("failed to list recipe items", "error", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []entity.RecipeItem
	for rows.Next() {
		var it entity.RecipeItem
		var taxRate sql.NullFloat64
		if err := rows.Scan(&it.ItemKey, &it.Category, &it.DisplayName, &taxRate); err != nil {
			return nil, err
		}
		if taxRate.Valid {
			v := taxRate.Float64
			it.TaxRate = &v
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *menuRepository) ListLines(ctx context.Context) ([]entity.RecipeLine, error) {
	rows, err := r.db.SQL.QueryContext(ctx, `SELECT item_key, ingredient, unit, qty_per_portion FROM recipe_lines ORDER BY id ASC`)
	if err != nil {
		r.logger.Error("failed to list recipe lines", "error", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []entity.RecipeLine
	for rows.Next() {
		var l entity.RecipeLine
		if err := rows.Scan(&l.ItemKey, &l.Ingredient, &l.Unit, &l.QtyPerPortion); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
