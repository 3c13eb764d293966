package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/diegoandradesramos-hub/pvp/internal/common"
	"github.com/diegoandradesramos-hub/pvp/internal/extract"
	"github.com/diegoandradesramos-hub/pvp/internal/ocr"
)

// runparse extracts and parses one invoice file without touching the
// database, printing the aggregated lines as JSON. Useful for checking what
// the extractor makes of a supplier's layout.
func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runparse <invoice-file>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		Lang:          cfg.OCR.Lang,
		TessdataDir:   cfg.OCR.TessdataDir,
		HeicConverter: cfg.OCR.HeicConverter,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)
	source := extract.NewOCRSource(extractor, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res := source.Text(ctx, path)
	lines := extract.Aggregate(extract.Lines(res.Text))
	logger.Info("parsed invoice",
		"path", path, "method", res.Method,
		"pages", res.Pages, "lines", len(lines),
	)
	for _, w := range res.Warnings {
		logger.Warn("extraction warning", "warning", w)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lines); err != nil {
		logger.Error("encode failed", "error", err)
		os.Exit(1)
	}
}
