package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/diegoandradesramos-hub/pvp/internal/entity"
)

// Service produces XLSX bytes for the price list and the purchase ledger.
type Service struct {
	currency string
	logger   *slog.Logger
}

func NewService(currencySymbol string, logger *slog.Logger) *Service {
	if currencySymbol == "" {
		currencySymbol = "€"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{currency: currencySymbol, logger: logger}
}

// PriceListXLSX returns a workbook with one row per menu item, in the order
// the items were given. Items without a resolvable cost show an empty PVP cell.
func (s *Service) PriceListXLSX(items []entity.PricedItem, purchases []entity.PurchaseLine) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Precios"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// The default Sheet1 stays around otherwise.
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Sección",
		"Producto",
		"Margen objetivo",
		"IVA",
		"Coste ingredientes",
		"PVP sugerido",
		"Faltan costes",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, it := range items {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, it.Category)
		write(2, it.DisplayName)
		write(3, fmt.Sprintf("%.0f%%", it.Margin*100))
		write(4, fmt.Sprintf("%.0f%%", it.TaxRate*100))
		write(5, fmt.Sprintf("%.2f %s", it.IngredientCost, s.currency))
		if it.SuggestedPrice != nil {
			write(6, fmt.Sprintf("%.2f %s", *it.SuggestedPrice, s.currency))
		} else {
			write(6, "")
		}
		if it.HasMissingCost {
			write(7, "sí")
		} else {
			write(7, "")
		}

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "B", 32)
	_ = f.SetColWidth(sheet, "C", "D", 14)
	_ = f.SetColWidth(sheet, "E", "F", 18)
	_ = f.SetColWidth(sheet, "G", "G", 12)

	if len(purchases) > 0 {
		if err := s.writePurchasesSheet(f, purchases); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"items", len(items),
		"purchases", len(purchases),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writePurchasesSheet(f *excelize.File, purchases []entity.PurchaseLine) error {
	const sheet = "Compras"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{
		"Fecha",
		"Proveedor",
		"Ingrediente",
		"Cantidad",
		"Unidad",
		"Total bruto",
		"IVA",
		"Factura",
		"Origen",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, p := range purchases {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, p.Date)
		write(2, p.Supplier)
		write(3, p.Ingredient)
		write(4, p.Quantity)
		write(5, p.Unit)
		write(6, fmt.Sprintf("%.2f %s", p.TotalCostGross, s.currency))
		write(7, fmt.Sprintf("%.0f%%", p.TaxRate*100))
		write(8, p.InvoiceNo)
		write(9, p.Source)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "C", 24)
	_ = f.SetColWidth(sheet, "D", "E", 10)
	_ = f.SetColWidth(sheet, "F", "F", 14)
	_ = f.SetColWidth(sheet, "G", "I", 10)
	return nil
}
