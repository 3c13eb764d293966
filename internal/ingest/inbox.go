package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diegoandradesramos-hub/pvp/internal/async"
	"github.com/diegoandradesramos-hub/pvp/internal/pipeline"
)

// Inbox consumes watcher events and hands invoice files to the processing
// queue. Files are deduplicated by content hash so a rename or a re-save of
// the same invoice does not append its lines twice.
type Inbox struct {
	queue      async.Queue
	logger     *slog.Logger
	defaultTax float64

	mu   sync.Mutex
	seen map[string]string // sha256 hex -> first path
}

func NewInbox(queue async.Queue, defaultTax float64, logger *slog.Logger) *Inbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inbox{
		queue:      queue,
		logger:     logger,
		defaultTax: defaultTax,
		seen:       make(map[string]string),
	}
}

// Run blocks until ctx is cancelled or the event channel closes.
func (in *Inbox) Run(ctx context.Context, events <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-events:
			if !ok {
				return
			}
			if err := in.handle(ctx, path); err != nil {
				in.logger.Warn("inbox file skipped", "path", path, "error", err)
			}
		}
	}
}

func (in *Inbox) handle(ctx context.Context, path string) error {
	if IsHidden(path) {
		return nil
	}
	hash, err := hashFile(path)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}

	in.mu.Lock()
	first, dup := in.seen[hash]
	if !dup {
		in.seen[hash] = path
	}
	in.mu.Unlock()
	if dup {
		in.logger.Info("inbox duplicate ignored", "path", path, "first_seen", first)
		return nil
	}

	meta := pipeline.Meta{
		Date:     time.Now().Format("2006-01-02"),
		Supplier: supplierFromPath(path),
		TaxRate:  in.defaultTax,
	}
	return in.queue.Enqueue(ctx, async.Job{
		Path:        path,
		Meta:        meta,
		SubmittedAt: time.Now(),
		TraceID:     uuid.NewString(),
	})
}

// supplierFromPath uses the parent directory name as the supplier, so an
// inbox laid out as inbox/<supplier>/<invoice>.pdf tags lines automatically.
// Files dropped at the inbox root get no supplier.
func supplierFromPath(path string) string {
	parent := filepath.Base(filepath.Dir(path))
	if parent == "." || parent == string(filepath.Separator) || strings.EqualFold(parent, "inbox") {
		return ""
	}
	return parent
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
