// Package limbdark is the public entry point for quadratic limb-darkening
// coefficient lookups.
//
// The one-shot helper covers the common case:
//
//	coeffs, err := limbdark.GetQuadCoeffs(ctx, 5800, claret.F64(4.4), claret.F64(0.0), "")
//
// For repeated queries, construct an Adaptor once; the dataset is
// provisioned at construction and every lookup afterwards is a local read.
package limbdark

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/kstellar/limbdark/pkg/claret"
	"github.com/kstellar/limbdark/pkg/config"
	"github.com/kstellar/limbdark/pkg/provision"
)

// Adaptor wraps the Claret & Bloemen (2011) grid behind a lookup method.
// Construction ensures a local copy of the dataset exists, downloading it
// if absent (or unconditionally when clobber is set).
type Adaptor struct {
	store *claret.Store
}

// NewAdaptor provisions the dataset described by cfg and returns an Adaptor
// reading from it. When clobber is true any existing local file is
// overwritten by a fresh download.
func NewAdaptor(ctx context.Context, cfg config.Config, clobber bool, opts ...provision.Option) (*Adaptor, error) {
	path, err := provision.New(cfg, opts...).Ensure(ctx, clobber)
	if err != nil {
		return nil, err
	}
	return &Adaptor{store: claret.NewStore(path)}, nil
}

// GetCoeffs returns the quadratic coefficients for the grid point closest
// to the given stellar parameters. teff is in Kelvin and required; logg and
// feh may be nil, in which case that dimension is ignored by the match.
func (a *Adaptor) GetCoeffs(ctx context.Context, teff float64, logg, feh *float64) (claret.Coeffs, error) {
	return a.store.Lookup(ctx, claret.Query{Teff: teff, LogG: logg, FeH: feh})
}

// Store exposes the underlying dataset store.
func (a *Adaptor) Store() *claret.Store { return a.store }

// GetQuadCoeffs is the one-shot convenience lookup. dataRoot overrides the
// resolved data root when non-empty; pass "" to use the configured default
// (LIMBDARK_ROOT, config file, or ~/.limbdark).
func GetQuadCoeffs(ctx context.Context, teff float64, logg, feh *float64, dataRoot string) (claret.Coeffs, error) {
	cfg, err := config.Default()
	if err != nil {
		return claret.Coeffs{}, err
	}
	cfg = cfg.WithRoot(dataRoot)

	a, err := NewAdaptor(ctx, cfg, false, provision.WithLogger(log.Default()))
	if err != nil {
		return claret.Coeffs{}, err
	}
	return a.GetCoeffs(ctx, teff, logg, feh)
}
