package claret

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kstellar/limbdark/pkg/errors"
	"github.com/kstellar/limbdark/pkg/observability"
)

// Store performs coefficient lookups against a local dataset file.
//
// The file is opened read-only for each call and closed before the call
// returns; no connection is held between lookups. A Store is safe for
// concurrent use since every lookup is self-contained.
type Store struct {
	path string
}

// NewStore creates a Store reading from the dataset file at path.
// The file is not opened until the first lookup.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the dataset file location.
func (s *Store) Path() string { return s.path }

// Lookup returns the coefficients of the grid point closest to q.
//
// Stage 1 picks the grid temperature minimizing |teff_grid - q.Teff|, with
// ties broken by ascending grid temperature. Stage 2 picks, among rows at
// that exact temperature, the row minimizing the squared Euclidean distance
// over the present (logg, feh) dimensions, with ties broken by storage
// order. Absent dimensions are ignored; if both are absent the first row at
// the selected temperature wins.
//
// Returns an INVALID_QUERY error before any file access when q.Teff is NaN,
// and a LOOKUP_FAILED error when the dataset is empty, missing, or does not
// have the expected schema.
func (s *Store) Lookup(ctx context.Context, q Query) (Coeffs, error) {
	if !q.Valid() {
		return Coeffs{}, errors.New(errors.ErrCodeInvalidQuery, "teff is required")
	}

	observability.Lookup().OnLookupStart(ctx, q.Teff)
	start := time.Now()

	coeffs, err := s.lookup(ctx, q)
	observability.Lookup().OnLookupComplete(ctx, q.Teff, time.Since(start), err)
	return coeffs, err
}

func (s *Store) lookup(ctx context.Context, q Query) (Coeffs, error) {
	db, err := s.open()
	if err != nil {
		return Coeffs{}, err
	}
	defer db.Close()

	stmt, args := buildLookup(q)

	var coeffs Coeffs
	if err := db.GetContext(ctx, &coeffs, stmt, args...); err != nil {
		if err == sql.ErrNoRows {
			return Coeffs{}, errors.New(errors.ErrCodeLookup, "dataset at %s is empty", s.path)
		}
		return Coeffs{}, errors.Wrap(errors.ErrCodeLookup, err, "query dataset at %s", s.path)
	}
	return coeffs, nil
}

// Count returns the number of grid points in the dataset.
func (s *Store) Count(ctx context.Context) (int64, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var n int64
	if err := db.GetContext(ctx, &n, "SELECT count(*) FROM "+TableName); err != nil {
		return 0, errors.Wrap(errors.ErrCodeLookup, err, "count rows in dataset at %s", s.path)
	}
	return n, nil
}

// open opens the dataset file read-only.
func (s *Store) open() (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLookup, err, "open dataset at %s", s.path)
	}
	return db, nil
}

// buildLookup assembles the two-stage nearest-neighbor statement.
//
// The stage-2 ORDER BY is built from the dimensions present in the query so
// that an absent logg or feh never enters the arithmetic. The trailing rowid
// term makes ties deterministic.
func buildLookup(q Query) (string, []any) {
	args := []any{q.Teff}

	var terms []string
	if q.LogG != nil {
		terms = append(terms, "(logg - ?) * (logg - ?)")
		args = append(args, *q.LogG, *q.LogG)
	}
	if q.FeH != nil {
		terms = append(terms, "(feh - ?) * (feh - ?)")
		args = append(args, *q.FeH, *q.FeH)
	}

	order := "rowid"
	if len(terms) > 0 {
		order = strings.Join(terms, " + ") + ", rowid"
	}

	stmt := fmt.Sprintf(
		"SELECT mu1, mu2 FROM %[1]s WHERE teff = "+
			"(SELECT teff FROM %[1]s ORDER BY abs(teff - ?), teff LIMIT 1) "+
			"ORDER BY %[2]s LIMIT 1",
		TableName, order)
	return stmt, args
}
