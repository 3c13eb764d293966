package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/diegoandradesramos-hub/pvp/constants"
	"github.com/diegoandradesramos-hub/pvp/internal/common"
	"github.com/diegoandradesramos-hub/pvp/internal/costmap"
	"github.com/diegoandradesramos-hub/pvp/internal/entity"
	"github.com/diegoandradesramos-hub/pvp/internal/normalize"
	"github.com/diegoandradesramos-hub/pvp/internal/pipeline"
)

const maxUploadBytes = 32 << 20

// handleInvoiceUpload accepts a multipart invoice file plus optional metadata
// fields (date, supplier, invoice_no, tax_rate) and appends the extracted
// lines to the ledger. The response carries the appended rows; an invoice
// that yields no parseable lines appends nothing and returns an empty list.
func (s *Server) handleInvoiceUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.BadRequestf(w, "invalid multipart form: %v", err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		common.BadRequestf(w, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		common.BadRequestf(w, "unsupported file extension %q", ext)
		return
	}

	meta := pipeline.Meta{
		Date:      r.FormValue("date"),
		Supplier:  r.FormValue("supplier"),
		InvoiceNo: r.FormValue("invoice_no"),
	}
	if meta.Date == "" {
		meta.Date = time.Now().Format("2006-01-02")
	}
	if v := r.FormValue("tax_rate"); v != "" {
		rate, err := normalize.ParseDecimal(v)
		if err != nil || rate < 0 {
			common.BadRequestf(w, "invalid tax_rate %q", v)
			return
		}
		meta.TaxRate = rate
	}

	path, err := s.saveUpload(file, header.Filename)
	if err != nil {
		s.logger.Error("upload save failed", "filename", header.Filename, "error", err)
		common.InternalErrorf(w, "could not store upload")
		return
	}

	rows, err := s.proc.Run(r.Context(), path, meta)
	if err != nil {
		s.logger.Error("invoice processing failed", "path", path, "error", err)
		common.InternalErrorf(w, "invoice processing failed")
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]any{
		"file":  filepath.Base(path),
		"rows":  rows,
		"count": len(rows),
	})
}

func (s *Server) saveUpload(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s", uuid.NewString()[:8], filepath.Base(filename))
	path := filepath.Join(s.uploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = dst.Close() }()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Server) handleAppendPurchase(w http.ResponseWriter, r *http.Request) {
	var row entity.PurchaseLine
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		common.BadRequestf(w, "invalid JSON body: %v", err)
		return
	}
	if row.Ingredient == "" {
		common.BadRequestf(w, "ingredient is required")
		return
	}
	if row.Quantity <= 0 {
		common.BadRequestf(w, "quantity must be positive")
		return
	}
	if row.Date == "" {
		row.Date = time.Now().Format("2006-01-02")
	}

	saved, err := s.proc.AppendManual(r.Context(), row)
	if err != nil {
		s.logger.Error("manual append failed", "ingredient", row.Ingredient, "error", err)
		common.InternalErrorf(w, "could not append purchase")
		return
	}
	common.WriteJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	rows, err := s.ledger.List(r.Context())
	if err != nil {
		s.logger.Error("list purchases failed", "error", err)
		common.InternalErrorf(w, "could not list purchases")
		return
	}
	common.WriteJSON(w, http.StatusOK, rows)
}

func (s *Server) handleUpsertYield(w http.ResponseWriter, r *http.Request) {
	var rec entity.YieldRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		common.BadRequestf(w, "invalid JSON body: %v", err)
		return
	}
	if rec.Ingredient == "" {
		common.BadRequestf(w, "ingredient is required")
		return
	}
	if rec.UsableYield <= 0 || rec.UsableYield > 1 {
		common.BadRequestf(w, "usable_yield must be in (0, 1]")
		return
	}
	// Collapse the unit so the yield lands on the same key the ledger uses.
	_, rec.Unit = normalize.ToBase(0, normalize.Unit(rec.Unit))

	if err := s.yields.Upsert(r.Context(), rec); err != nil {
		s.logger.Error("yield upsert failed", "ingredient", rec.Ingredient, "error", err)
		common.InternalErrorf(w, "could not store yield")
		return
	}
	common.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCostMap(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.ledger.List(r.Context())
	if err != nil {
		s.logger.Error("list purchases failed", "error", err)
		common.InternalErrorf(w, "could not list purchases")
		return
	}
	yields, err := s.yields.List(r.Context())
	if err != nil {
		s.logger.Error("list yields failed", "error", err)
		common.InternalErrorf(w, "could not list yields")
		return
	}
	costs := costmap.Build(purchases, yields)
	common.WriteJSON(w, http.StatusOK, costs.Entries())
}

func (s *Server) handleMenuImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		common.BadRequestf(w, "could not read body: %v", err)
		return
	}
	res, err := s.importer.Import(r.Context(), raw)
	if err != nil {
		common.BadRequestf(w, "menu import rejected: %v", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]int{
		"recipes": res.Items,
		"lines":   res.Lines,
		"yields":  res.Yields,
		"margins": res.Margins,
	})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	priced, err := s.priceList(r.Context())
	if err != nil {
		s.logger.Error("price list failed", "error", err)
		common.InternalErrorf(w, "could not compute prices")
		return
	}
	common.WriteJSON(w, http.StatusOK, priced)
}

func (s *Server) handlePricesXLSX(w http.ResponseWriter, r *http.Request) {
	priced, err := s.priceList(r.Context())
	if err != nil {
		s.logger.Error("price list failed", "error", err)
		common.InternalErrorf(w, "could not compute prices")
		return
	}
	purchases, err := s.ledger.List(r.Context())
	if err != nil {
		s.logger.Error("list purchases failed", "error", err)
		common.InternalErrorf(w, "could not list purchases")
		return
	}
	data, err := s.exporter.PriceListXLSX(priced, purchases)
	if err != nil {
		s.logger.Error("xlsx export failed", "error", err)
		common.InternalErrorf(w, "could not build workbook")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="precios.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
