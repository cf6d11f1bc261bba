package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/kstellar/limbdark/pkg/errors"
	"github.com/kstellar/limbdark/pkg/limbdark"
	"github.com/kstellar/limbdark/pkg/provision"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string
	dataRoot   string
	datasetURL string
	refresh    bool
}

// serveCommand creates the serve command exposing lookups over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve coefficient lookups over HTTP",
		Long: `Serve coefficient lookups as a small JSON API.

The dataset is provisioned once at startup; every request afterwards is a
local read.

Endpoints:
  GET /v1/coeffs?teff=5800&logg=4.4&feh=0.0
  GET /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.dataRoot, "data-root", "", "local directory for the dataset (default: LIMBDARK_ROOT or ~/.limbdark)")
	cmd.Flags().StringVar(&opts.datasetURL, "dataset-url", "", "override the dataset download URL")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-download the dataset at startup")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.resolveConfig(opts.dataRoot, opts.datasetURL)
	if err != nil {
		return err
	}

	a, err := limbdark.NewAdaptor(ctx, cfg, opts.refresh, provision.WithLogger(c.Logger))
	if err != nil {
		return err
	}

	router := newRouter(a)
	srv := &http.Server{
		Addr: opts.addr,
		// Attach the CLI logger so handlers log through the same sink.
		Handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			router.ServeHTTP(w, req.WithContext(withLogger(req.Context(), c.Logger)))
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// newRouter builds the HTTP API around an adaptor.
func newRouter(a *limbdark.Adaptor) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/v1/coeffs", func(w http.ResponseWriter, req *http.Request) {
		handleCoeffs(a, w, req)
	})

	return r
}

func handleCoeffs(a *limbdark.Adaptor, w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	teffParam := q.Get("teff")
	if teffParam == "" {
		writeJSONError(w, http.StatusBadRequest, "teff is required")
		return
	}
	teff, err := strconv.ParseFloat(teffParam, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid teff")
		return
	}

	var logg, feh *float64
	if logg, err = optionalFloat(q.Get("logg")); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid logg")
		return
	}
	if feh, err = optionalFloat(q.Get("feh")); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid feh")
		return
	}

	coeffs, err := a.GetCoeffs(req.Context(), teff, logg, feh)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errors.ErrCodeInvalidQuery) {
			status = http.StatusBadRequest
		}
		loggerFromContext(req.Context()).Warn("lookup failed", "teff", teff, "err", err)
		writeJSONError(w, status, errors.UserMessage(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(coeffs)
}

// optionalFloat parses an optional query parameter; empty means absent.
func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
