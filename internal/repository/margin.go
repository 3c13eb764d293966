package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/diegoandradesramos-hub/pvp/internal/entity"
)

// MarginRepository stores the per-category target margins.
type MarginRepository interface {
	Upsert(ctx context.Context, rule entity.MarginRule) error
	List(ctx context.Context) ([]entity.MarginRule, error)
}

type marginRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewMarginRepository(db *DB, logger *slog.Logger) MarginRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &marginRepository{db: db, logger: logger}
}

func (r *marginRepository) Upsert(ctx context.Context, rule entity.MarginRule) error {
	q := r.db.rebind(`INSERT INTO margin_rules (category, target_margin)
		VALUES (?, ?)
		ON CONFLICT (category) DO UPDATE SET target_margin = excluded.target_margin`)
	if _, err := r.db.SQL.ExecContext(ctx, q, rule.Category, rule.TargetMargin); err != nil {
		return fmt.Errorf("upsert margin rule: %w", err)
	}
	return nil
}

func (r *marginRepository) List(ctx context.Context) ([]entity.MarginRule, error) {
	rows, err := r.db.SQL.QueryContext(ctx, `SELECT category, target_margin FROM margin_rules`)
	if err != nil {
		r.logger.Error("failed to list margin rules", "error", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []entity.MarginRule
	for rows.Next() {
		var m entity.MarginRule
		if err := rows.Scan(&m.Category, &m.TargetMargin); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
