package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/diegoandradesramos-hub/pvp/internal/entity"
	"github.com/diegoandradesramos-hub/pvp/internal/normalize"
)

// YieldRepository stores usable-yield fractions, keyed by the same normalized
// (ingredient, unit) transform as the ledger.
type YieldRepository interface {
	Upsert(ctx context.Context, rec entity.YieldRecord) error
	List(ctx context.Context) ([]entity.YieldRecord, error)
}

type yieldRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewYieldRepository(db *DB, logger *slog.Logger) YieldRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &yieldRepository{db: db, logger: logger}
}

func (r *yieldRepository) Upsert(ctx context.Context, rec entity.YieldRecord) error {
	q := r.db.rebind(`INSERT INTO ingredient_yields (ingredient, unit, usable_yield)
		VALUES (?, ?, ?)
		ON CONFLICT (ingredient, unit) DO UPDATE SET usable_yield = excluded.usable_yield`)
	_, err := r.db.SQL.ExecContext(ctx, q, normalize.Key(rec.Ingredient), normalize.Key(rec.Unit), rec.UsableYield)
	if err != nil {
		return fmt.Errorf("upsert yield: %w", err)
	}
	return nil
}

func (r *yieldRepository) List(ctx context.Context) ([]entity.YieldRecord, error) {
	rows, err := r.db.SQL.QueryContext(ctx, `SELECT ingredient, unit, usable_yield FROM ingredient_yields`)
	if err != nil {
		r.logger.Error("failed to list yields", "error", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []entity.YieldRecord
	for rows.Next() {
		var y entity.YieldRecord
		if err := rows.Scan(&y.Ingredient, &y.Unit, &y.UsableYield); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, rows.Err()
}
