// Package pipeline runs one invoice end to end: text source -> line
// extraction -> per-invoice aggregation -> ledger append.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/diegoandradesramos-hub/pvp/constants"
	"github.com/diegoandradesramos-hub/pvp/internal/entity"
	"github.com/diegoandradesramos-hub/pvp/internal/extract"
	"github.com/diegoandradesramos-hub/pvp/internal/normalize"
	"github.com/diegoandradesramos-hub/pvp/internal/repository"
)

// Config holds behavior defaults for invoice processing.
type Config struct {
	DefaultTaxRate float64 // applied when the upload does not state one
}

// Meta is operator-supplied invoice context; every parsed line inherits it.
type Meta struct {
	Date      string
	Supplier  string
	InvoiceNo string
	TaxRate   float64 // 0 -> Config.DefaultTaxRate
}

type Processor struct {
	Logger *slog.Logger
	Cfg    Config
	Source extract.TextSource
	Ledger repository.LedgerRepository
}

func NewProcessor(logger *slog.Logger, cfg Config, source extract.TextSource, ledger repository.LedgerRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DefaultTaxRate <= 0 {
		cfg.DefaultTaxRate = 0.10
	}
	return &Processor{Logger: logger, Cfg: cfg, Source: source, Ledger: ledger}
}

// Run parses one invoice file and appends the aggregated lines to the ledger.
// An invoice that yields no matches is not an error: it returns an empty
// slice and appends nothing.
func (p *Processor) Run(ctx context.Context, path string, meta Meta) ([]entity.PurchaseLine, error) {
	start := time.Now()
	taxRate := meta.TaxRate
	if taxRate <= 0 {
		taxRate = p.Cfg.DefaultTaxRate
	}

	src := p.Source.Text(ctx, path)
	lines := extract.Aggregate(extract.Lines(src.Text))
	p.Logger.Info("pipeline.extract",
		"path", path, "method", src.Method,
		"text_bytes", len(src.Text), "lines", len(lines),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if len(lines) == 0 {
		return nil, nil
	}

	rows := make([]entity.PurchaseLine, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, entity.PurchaseLine{
			Date:           meta.Date,
			Supplier:       meta.Supplier,
			Ingredient:     l.Ingredient,
			Quantity:       l.Quantity,
			Unit:           l.Unit,
			TotalCostGross: l.TotalGross,
			TaxRate:        taxRate,
			InvoiceNo:      meta.InvoiceNo,
			Notes:          constants.SourceAuto + ":" + filepath.Base(path),
			Source:         constants.SourceAuto,
		})
	}
	appended, err := p.Ledger.Append(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("append parsed lines: %w", err)
	}
	return appended, nil
}

// AppendManual records one operator-typed purchase line, applying the same
// unit normalization the extractor applies to parsed lines.
func (p *Processor) AppendManual(ctx context.Context, row entity.PurchaseLine) (entity.PurchaseLine, error) {
	if row.TaxRate <= 0 {
		row.TaxRate = p.Cfg.DefaultTaxRate
	}
	row.Quantity, row.Unit = normalize.ToBase(row.Quantity, normalize.Unit(row.Unit))
	row.Source = constants.SourceManual
	if row.Notes == "" {
		row.Notes = constants.SourceManual
	}
	appended, err := p.Ledger.Append(ctx, []entity.PurchaseLine{row})
	if err != nil {
		return entity.PurchaseLine{}, fmt.Errorf("append manual line: %w", err)
	}
	return appended[0], nil
}
