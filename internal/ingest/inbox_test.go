package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/diegoandradesramos-hub/pvp/internal/async"
)

type captureQueue struct {
	mu   sync.Mutex
	jobs []async.Job
}

func (q *captureQueue) Enqueue(_ context.Context, job async.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *captureQueue) Shutdown(context.Context) {}

func (q *captureQueue) snapshot() []async.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]async.Job(nil), q.jobs...)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestInboxEnqueuesNewFiles(t *testing.T) {
	dir := t.TempDir()
	q := &captureQueue{}
	in := NewInbox(q, 0.10, nil)

	path := writeFile(t, dir, "mercafruta/factura1.pdf", "invoice one")
	if err := in.handle(context.Background(), path); err != nil {
		t.Fatalf("handle: %v", err)
	}

	jobs := q.snapshot()
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(jobs))
	}
	if jobs[0].Path != path {
		t.Fatalf("path = %q, want %q", jobs[0].Path, path)
	}
	if jobs[0].Meta.Supplier != "mercafruta" {
		t.Fatalf("supplier = %q, want mercafruta", jobs[0].Meta.Supplier)
	}
	if jobs[0].Meta.TaxRate != 0.10 {
		t.Fatalf("tax rate = %v, want 0.10", jobs[0].Meta.TaxRate)
	}
}

func TestInboxDeduplicatesByContent(t *testing.T) {
	dir := t.TempDir()
	q := &captureQueue{}
	in := NewInbox(q, 0.10, nil)

	first := writeFile(t, dir, "a.pdf", "same bytes")
	second := writeFile(t, dir, "b.pdf", "same bytes")
	third := writeFile(t, dir, "c.pdf", "different bytes")

	for _, p := range []string{first, second, third} {
		if err := in.handle(context.Background(), p); err != nil {
			t.Fatalf("handle %s: %v", p, err)
		}
	}

	jobs := q.snapshot()
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2 (duplicate content skipped)", len(jobs))
	}
}

func TestInboxSkipsHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	q := &captureQueue{}
	in := NewInbox(q, 0.10, nil)

	path := writeFile(t, dir, ".tmp_upload.pdf", "partial")
	if err := in.handle(context.Background(), path); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(q.snapshot()) != 0 {
		t.Fatalf("hidden file was enqueued")
	}
}

func TestSupplierFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/data/inbox/mercafruta/f1.pdf", "mercafruta"},
		{"/data/inbox/f1.pdf", ""},
		{"f1.pdf", ""},
	}
	for _, tc := range cases {
		if got := supplierFromPath(tc.path); got != tc.want {
			t.Errorf("supplierFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
