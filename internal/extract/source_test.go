package extract

import (
	"context"
	"testing"

	"github.com/diegoandradesramos-hub/pvp/internal/ocr"
)

// An extractor failure must collapse to an empty-text result with a warning;
// the error stops at the adapter and never reaches the pipeline.
func TestOCRSourceCollapsesExtractorFailure(t *testing.T) {
	e := ocr.NewExtractor(ocr.Config{}, nil)
	src := NewOCRSource(e, nil)

	// .xyz is not a supported invoice format, so Extract errors out
	res := src.Text(context.Background(), "factura.xyz")

	if res.Text != "" {
		t.Errorf("text = %q, want empty", res.Text)
	}
	if len(res.Warnings) == 0 {
		t.Error("want a warning describing the failure")
	}

	// empty text flows through extraction as zero lines, not an error
	if lines := Lines(res.Text); len(lines) != 0 {
		t.Errorf("lines = %d, want 0", len(lines))
	}
}
