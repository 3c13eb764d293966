package extract

import (
	"context"
	"log/slog"

	"github.com/diegoandradesramos-hub/pvp/internal/ocr"
)

// TextSource supplies the raw text of one invoice file. The extractor does
// not know (or care) whether a text layer or OCR produced it.
type TextSource interface {
	Text(ctx context.Context, path string) SourceResult
}

// SourceResult carries the text plus provenance for logging. Text may be
// empty; empty text simply yields zero matches downstream.
type SourceResult struct {
	Text     string
	Method   string
	Pages    int
	Warnings []string
}

// OCRSource adapts ocr.Extractor to the TextSource contract: any failure of
// the text-layer or OCR path collapses to empty text. Collaborator errors
// stop here; they never propagate into the pipeline.
type OCRSource struct {
	extractor *ocr.Extractor
	logger    *slog.Logger
}

func NewOCRSource(e *ocr.Extractor, logger *slog.Logger) *OCRSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRSource{extractor: e, logger: logger}
}

func (s *OCRSource) Text(ctx context.Context, path string) SourceResult {
	res, err := s.extractor.Extract(ctx, path)
	if err != nil {
		s.logger.Warn("text extraction failed, treating as empty",
			"path", path, "method", res.Method, "error", err)
		return SourceResult{Method: res.Method, Warnings: append(res.Warnings, err.Error())}
	}
	return SourceResult{Text: res.Text, Method: res.Method, Pages: res.Pages, Warnings: res.Warnings}
}
