package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/diegoandradesramos-hub/pvp/internal/entity"
)

// LedgerRepository is the append-only purchase ledger. Rows are never updated
// or deleted; the id column carries the append order the cost map relies on.
type LedgerRepository interface {
	Append(ctx context.Context, rows []entity.PurchaseLine) ([]entity.PurchaseLine, error)
	List(ctx context.Context) ([]entity.PurchaseLine, error)
}

type ledgerRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewLedgerRepository(db *DB, logger *slog.Logger) LedgerRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ledgerRepository{db: db, logger: logger}
}

func (r *ledgerRepository) Append(ctx context.Context, rows []entity.PurchaseLine) ([]entity.PurchaseLine, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := r.db.rebind(`INSERT INTO purchases
		(purchase_date, supplier, ingredient, quantity, unit, total_cost_gross, tax_rate, invoice_no, notes, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	returning := insert + " RETURNING id"

	out := make([]entity.PurchaseLine, 0, len(rows))
	for _, row := range rows {
		args := []any{
			row.Date, row.Supplier, row.Ingredient, row.Quantity, row.Unit,
			row.TotalCostGross, row.TaxRate, row.InvoiceNo, row.Notes, row.Source,
		}
		if r.db.Driver == "pgx" {
			if err := tx.QueryRowContext(ctx, returning, args...).Scan(&row.ID); err != nil {
				return nil, fmt.Errorf("append purchase: %w", err)
			}
		} else {
			res, err := tx.ExecContext(ctx, insert, args...)
			if err != nil {
				return nil, fmt.Errorf("append purchase: %w", err)
			}
			row.ID, err = res.LastInsertId()
			if err != nil {
				return nil, fmt.Errorf("append purchase id: %w", err)
			}
		}
		out = append(out, row)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	r.logger.Info("ledger.append", "rows", len(out))
	return out, nil
}

func (r *ledgerRepository) List(ctx context.Context) ([]entity.PurchaseLine, error) {
	rows, err := r.db.SQL.QueryContext(ctx, `SELECT
		id, purchase_date, supplier, ingredient, quantity, unit,
		total_cost_gross, tax_rate, invoice_no, notes, source
		FROM purchases ORDER BY id ASC`)
	if err != nil {
		r.logger.Error("failed to list purchases", "error", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []entity.PurchaseLine
	for rows.Next() {
		var p entity.PurchaseLine
		if err := rows.Scan(&p.ID, &p.Date, &p.Supplier, &p.Ingredient, &p.Quantity, &p.Unit,
			&p.TotalCostGross, &p.TaxRate, &p.InvoiceNo, &p.Notes, &p.Source); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
