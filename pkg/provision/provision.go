package provision

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/kstellar/limbdark/pkg/config"
	"github.com/kstellar/limbdark/pkg/errors"
	"github.com/kstellar/limbdark/pkg/observability"
)

// httpTimeout bounds the dataset download. The file is a few megabytes;
// anything slower than this is a failure, not a slow link worth waiting on.
const httpTimeout = 5 * time.Minute

// Provisioner downloads the dataset into a local data root.
// All configuration is explicit at construction; there is no process-wide
// default root.
type Provisioner struct {
	cfg    config.Config
	client *http.Client
	logger *log.Logger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provisioner) { p.client = c }
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Provisioner) { p.logger = l }
}

// New creates a Provisioner for the given config.
func New(cfg config.Config, opts ...Option) *Provisioner {
	p := &Provisioner{
		cfg:    cfg,
		client: &http.Client{Timeout: httpTimeout},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ensure guarantees a local dataset file and returns its path.
//
// If refresh is false and the file already exists, the path is returned
// immediately with no network access. Otherwise the dataset is fetched from
// the configured URL, written to a temporary file, flushed to disk, and
// atomically renamed onto the target. A failure mid-download leaves the
// previous file (if any) untouched.
//
// There are no retries; a failed download is terminal for this call.
func (p *Provisioner) Ensure(ctx context.Context, refresh bool) (string, error) {
	target := p.cfg.DatasetPath()

	if !refresh {
		if _, err := os.Stat(target); err == nil {
			observability.Fetch().OnCacheHit(ctx, target)
			p.logger.Debug("dataset already present", "path", target)
			return target, nil
		}
	}

	if err := os.MkdirAll(p.cfg.Root, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "create data root %s", p.cfg.Root)
	}

	p.logger.Info("downloading dataset", "url", p.cfg.DatasetURL)
	observability.Fetch().OnDownloadStart(ctx, p.cfg.DatasetURL)
	start := time.Now()

	size, err := p.download(ctx, target)
	observability.Fetch().OnDownloadComplete(ctx, p.cfg.DatasetURL, size, time.Since(start), err)
	if err != nil {
		return "", err
	}

	p.logger.Info("dataset saved", "path", target, "bytes", size)
	return target, nil
}

// download fetches the dataset and atomically installs it at target.
func (p *Provisioner) download(ctx context.Context, target string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.DatasetURL, nil)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeNetwork, err, "build request for %s", p.cfg.DatasetURL)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", p.cfg.DatasetURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.New(errors.ErrCodeDownload, "fetch %s: status %d", p.cfg.DatasetURL, resp.StatusCode)
	}

	// Write next to the target so the rename stays on one filesystem.
	tmp := filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+"."+uuid.NewString())
	size, err := writeFileSync(tmp, resp.Body)
	if err != nil {
		os.Remove(tmp)
		return 0, errors.Wrap(errors.ErrCodeFilesystem, err, "write temporary dataset %s", tmp)
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return 0, errors.Wrap(errors.ErrCodeFilesystem, err, "install dataset at %s", target)
	}
	return size, nil
}

// writeFileSync writes r to path and forces the contents to disk before
// returning. The file is closed in all cases.
func writeFileSync(path string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return 0, err
	}
	return size, f.Close()
}
