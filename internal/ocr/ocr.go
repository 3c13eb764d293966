// Package ocr extracts raw text from invoice files. PDFs go through their
// text layer first (pdftotext); scanned PDFs and photos fall back to
// rasterization plus tesseract. The OCR engine is an optional capability:
// it is probed lazily once, and when absent every dependent call degrades
// rather than failing the run.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/diegoandradesramos-hub/pvp/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang        string // tesseract language pack, default "spa+eng"
	DPI         int    // rasterization DPI for scanned PDFs, default 200
	MaxPages    int    // 0 = no limit
	TessdataDir string

	HeicConverter string // "heif-convert" | "magick" | "sips"
}

// Result is what one extraction produced. Method records which path ran.
type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Warnings   []string
	Duration   time.Duration
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	probeOnce    sync.Once
	ocrAvailable bool
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "spa+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// hasOCR probes for the tesseract binary once per process. A failed probe is
// final: dependent extractions report "no text produced" instead of erroring.
func (e *Extractor) hasOCR() bool {
	e.probeOnce.Do(func() {
		_, err := exec.LookPath(e.cfg.Tesseract)
		e.ocrAvailable = err == nil
		if err != nil {
			e.logger.Warn("ocr engine unavailable, scanned documents will produce no text",
				"binary", e.cfg.Tesseract, "error", err)
		}
	})
	return e.ocrAvailable
}

// Extract picks a strategy based on file extension. A PDF whose text layer
// comes back blank is retried through the raster OCR path.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.IMAGE:
		res, err := e.extractImage(ctx, path, ext)
		res.Duration = time.Since(start)
		return res, err
	default:
		e.logger.Error("unsupported extension", "path", path, "ext", ext)
		return Result{}, fmt.Errorf("unsupported extension: %q", ext)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	text, pages, warns, err := e.pdfToText(ctx, path)
	if err == nil && strings.TrimSpace(text) != "" {
		return Result{
			Text:       cleanupText(text),
			Pages:      pages,
			SourceType: constants.PDF,
			Method:     "pdf-text",
			Warnings:   warns,
		}, nil
	}
	if err != nil {
		warns = append(warns, err.Error())
	}

	// Blank text layer: scanned document. Rasterize and OCR each page.
	if !e.hasOCR() {
		warns = append(warns, "no ocr engine for scanned pdf")
		return Result{SourceType: constants.PDF, Method: "pdf-ocr", Warnings: warns}, nil
	}
	text, pages, ocrWarns, err := e.pdfToOCR(ctx, path)
	warns = append(warns, ocrWarns...)
	if err != nil {
		return Result{SourceType: constants.PDF, Method: "pdf-ocr", Warnings: warns}, err
	}
	return Result{
		Text:       cleanupText(text),
		Pages:      pages,
		SourceType: constants.PDF,
		Method:     "pdf-ocr",
		Warnings:   warns,
	}, nil
}

func (e *Extractor) extractImage(ctx context.Context, path, ext string) (Result, error) {
	var warns []string
	if constants.IsHEICExt(ext) {
		out, w, cleanup, err := convertHEICtoPNG(ctx, e.runner, e.cfg.HeicConverter, path)
		warns = append(warns, w...)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			e.logger.Error("heic conversion failed", "path", path, "error", err)
			return Result{SourceType: constants.IMAGE, Method: "image-ocr", Warnings: warns}, err
		}
		path = out
	}
	if !e.hasOCR() {
		warns = append(warns, "no ocr engine for image")
		return Result{SourceType: constants.IMAGE, Method: "image-ocr", Warnings: warns}, nil
	}
	text, w, err := e.tesseract(ctx, path)
	warns = append(warns, w...)
	if err != nil {
		return Result{SourceType: constants.IMAGE, Method: "image-ocr", Warnings: warns}, err
	}
	return Result{
		Text:       cleanupText(text),
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Warnings:   warns,
	}, nil
}
