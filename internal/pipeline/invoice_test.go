package pipeline

import (
	"context"
	"testing"

	"github.com/diegoandradesramos-hub/pvp/internal/entity"
	"github.com/diegoandradesramos-hub/pvp/internal/extract"
)

type fakeSource struct {
	text string
}

func (f fakeSource) Text(_ context.Context, _ string) extract.SourceResult {
	return extract.SourceResult{Text: f.text, Method: "pdf-text"}
}

type fakeLedger struct {
	rows []entity.PurchaseLine
}

func (f *fakeLedger) Append(_ context.Context, rows []entity.PurchaseLine) ([]entity.PurchaseLine, error) {
	for _, r := range rows {
		r.ID = int64(len(f.rows) + 1)
		f.rows = append(f.rows, r)
	}
	n := len(f.rows)
	return f.rows[n-len(rows):], nil
}

func (f *fakeLedger) List(_ context.Context) ([]entity.PurchaseLine, error) {
	return f.rows, nil
}

func TestRunAppendsAggregatedLines(t *testing.T) {
	text := "Tomate 10 kg caja grande 25,00€\nTomate 5 kg caja chica 12,50€\nCebolla 18,00€ ref dos 6 kg\n"
	ledger := &fakeLedger{}
	p := NewProcessor(nil, Config{}, fakeSource{text: text}, ledger)

	rows, err := p.Run(context.Background(), "/in/factura.pdf", Meta{
		Date: "12/05/2024", Supplier: "Frutas Paco", InvoiceNo: "F-9", TaxRate: 0.10,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 aggregated rows, got %d: %+v", len(rows), rows)
	}
	tomate := rows[0]
	if tomate.Quantity != 15 || tomate.TotalCostGross != 37.5 {
		t.Errorf("tomate aggregated = %+v, want qty 15 total 37.5", tomate)
	}
	if tomate.Supplier != "Frutas Paco" || tomate.InvoiceNo != "F-9" || tomate.TaxRate != 0.10 {
		t.Errorf("meta not applied: %+v", tomate)
	}
	if tomate.Notes != "auto:factura.pdf" || tomate.Source != "auto" {
		t.Errorf("source marks wrong: notes=%q source=%q", tomate.Notes, tomate.Source)
	}
}

func TestRunEmptyTextAppendsNothing(t *testing.T) {
	ledger := &fakeLedger{}
	p := NewProcessor(nil, Config{}, fakeSource{text: ""}, ledger)

	rows, err := p.Run(context.Background(), "/in/blanco.pdf", Meta{})
	if err != nil {
		t.Fatalf("empty invoice must not error: %v", err)
	}
	if len(rows) != 0 || len(ledger.rows) != 0 {
		t.Errorf("nothing should be appended, got %+v", ledger.rows)
	}
}

func TestRunDefaultTaxRate(t *testing.T) {
	ledger := &fakeLedger{}
	p := NewProcessor(nil, Config{}, fakeSource{text: "Aceite 5 lts garrafa 30,00€"}, ledger)

	rows, err := p.Run(context.Background(), "/in/f.pdf", Meta{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rows) != 1 || rows[0].TaxRate != 0.10 {
		t.Errorf("default tax rate not applied: %+v", rows)
	}
	if rows[0].Unit != "L" || rows[0].Quantity != 5 {
		t.Errorf("unit not canonical: %+v", rows[0])
	}
}

func TestAppendManualNormalizesUnits(t *testing.T) {
	ledger := &fakeLedger{}
	p := NewProcessor(nil, Config{}, fakeSource{}, ledger)

	row, err := p.AppendManual(context.Background(), entity.PurchaseLine{
		Ingredient: "Azafran", Quantity: 500, Unit: "gr", TotalCostGross: 12,
	})
	if err != nil {
		t.Fatalf("append manual: %v", err)
	}
	if row.Quantity != 0.5 || row.Unit != "kg" {
		t.Errorf("manual line not normalized: %+v", row)
	}
	if row.TaxRate != 0.10 || row.Source != "manual" {
		t.Errorf("defaults not applied: %+v", row)
	}
}
