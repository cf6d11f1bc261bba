package claret

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/kstellar/limbdark/pkg/errors"
)

// schema matches the published dataset file exactly; the column set and
// order are an external contract and must round-trip unchanged.
const schema = "CREATE TABLE IF NOT EXISTS " + TableName +
	" (teff REAL, logg REAL, feh REAL, veloc REAL, mu1 REAL, mu2 REAL)"

const insert = "INSERT INTO " + TableName +
	" (teff, logg, feh, veloc, mu1, mu2) VALUES (:teff, :logg, :feh, :veloc, :mu1, :mu2)"

// Create writes a dataset file at path containing the given grid points.
// An existing claret11 table is appended to. Used for test fixtures and for
// building grids from locally available tables.
func Create(ctx context.Context, path string, rows []Row) error {
	db, err := sqlx.Open("sqlite", "file:"+path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "create dataset at %s", path)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "create table in %s", path)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "begin transaction on %s", path)
	}
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			tx.Rollback()
			return errors.Wrap(errors.ErrCodeFilesystem, err, "insert grid point into %s", path)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "commit grid points to %s", path)
	}
	return nil
}
