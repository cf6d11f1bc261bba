package provision

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/kstellar/limbdark/pkg/config"
	"github.com/kstellar/limbdark/pkg/errors"
)

// fixture is a stand-in for the dataset blob; provisioning treats the body
// as opaque bytes.
var fixture = []byte("SQLite format 3\x00 fake dataset contents")

// counterServer serves fixture and counts requests.
func counterServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(fixture)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testConfig(t *testing.T, url string) config.Config {
	t.Helper()
	return config.Config{Root: t.TempDir(), DatasetURL: url}
}

func TestEnsureDownloadsOnce(t *testing.T) {
	srv, hits := counterServer(t)
	p := New(testConfig(t, srv.URL))

	path, err := p.Ensure(context.Background(), false)
	if err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	if string(data) != string(fixture) {
		t.Error("dataset contents do not match served fixture")
	}

	// Second call must be served from disk.
	again, err := p.Ensure(context.Background(), false)
	if err != nil {
		t.Fatalf("second Ensure() error: %v", err)
	}
	if again != path {
		t.Errorf("second Ensure() = %q, want %q", again, path)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestEnsureRefreshRedownloads(t *testing.T) {
	srv, hits := counterServer(t)
	p := New(testConfig(t, srv.URL))

	if _, err := p.Ensure(context.Background(), false); err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if _, err := p.Ensure(context.Background(), true); err != nil {
		t.Fatalf("Ensure(refresh) error: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
}

func TestEnsureNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	p := New(cfg)

	_, err := p.Ensure(context.Background(), false)
	if err == nil {
		t.Fatal("Ensure() should fail on non-200 response")
	}
	if !errors.Is(err, errors.ErrCodeDownload) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeDownload)
	}

	// No file may appear at the target path.
	if _, err := os.Stat(cfg.DatasetPath()); !os.IsNotExist(err) {
		t.Error("failed download must not leave a dataset file")
	}
}

func TestEnsureInterruptedDownloadLeavesNoPartialFile(t *testing.T) {
	// The server writes half the body, then drops the connection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000000")
		w.Write(fixture)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	p := New(cfg)

	_, err := p.Ensure(context.Background(), false)
	if err == nil {
		t.Fatal("Ensure() should fail on a truncated download")
	}

	// Neither the target nor a leftover temp file may remain.
	entries, readErr := os.ReadDir(cfg.Root)
	if readErr != nil {
		t.Fatalf("read data root: %v", readErr)
	}
	for _, e := range entries {
		t.Errorf("unexpected file left in data root: %s", e.Name())
	}
}

func TestEnsureInterruptedRefreshKeepsOldFile(t *testing.T) {
	cfg := testConfig(t, "")

	// Seed an existing dataset.
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		t.Fatal(err)
	}
	old := []byte("previous dataset")
	if err := os.WriteFile(cfg.DatasetPath(), old, 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000000")
		w.Write([]byte("partial new data"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer srv.Close()
	cfg.DatasetURL = srv.URL

	p := New(cfg)
	if _, err := p.Ensure(context.Background(), true); err == nil {
		t.Fatal("Ensure(refresh) should fail on a truncated download")
	}

	data, err := os.ReadFile(cfg.DatasetPath())
	if err != nil {
		t.Fatalf("old dataset should survive: %v", err)
	}
	if string(data) != string(old) {
		t.Error("old dataset was corrupted by a failed refresh")
	}
}

func TestEnsureCreatesRoot(t *testing.T) {
	srv, _ := counterServer(t)
	root := filepath.Join(t.TempDir(), "nested", "data")
	p := New(config.Config{Root: root, DatasetURL: srv.URL})

	path, err := p.Ensure(context.Background(), false)
	if err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if filepath.Dir(path) != root {
		t.Errorf("dataset path %q not under root %q", path, root)
	}
}

func TestEnsureContextCanceled(t *testing.T) {
	srv, _ := counterServer(t)
	p := New(testConfig(t, srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Ensure(ctx, false)
	if err == nil {
		t.Fatal("Ensure() with canceled context should fail")
	}
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeNetwork)
	}
}
