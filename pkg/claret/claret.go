package claret

import "math"

// TableName is the dataset table holding the coefficient grid.
const TableName = "claret11"

// Row is one grid point of the precomputed model.
// Field order matches the on-disk column order.
type Row struct {
	Teff  float64 `db:"teff"`  // effective temperature [K]
	LogG  float64 `db:"logg"`  // log10 surface gravity [cm/s^2]
	FeH   float64 `db:"feh"`   // metallicity [Fe/H]
	Veloc float64 `db:"veloc"` // microturbulent velocity [km/s]
	Mu1   float64 `db:"mu1"`   // first quadratic coefficient
	Mu2   float64 `db:"mu2"`   // second quadratic coefficient
}

// Coeffs is a quadratic limb-darkening coefficient pair.
type Coeffs struct {
	Mu1 float64 `db:"mu1" json:"mu1"`
	Mu2 float64 `db:"mu2" json:"mu2"`
}

// Query selects the grid point closest to a star's parameters.
// Teff is required. LogG and FeH are optional; a nil value drops that
// dimension from the stage-2 distance instead of comparing against a null.
type Query struct {
	Teff float64
	LogG *float64
	FeH  *float64
}

// Valid reports whether the query carries a usable temperature.
func (q Query) Valid() bool {
	return !math.IsNaN(q.Teff)
}

// F64 returns a pointer to v, for filling optional Query fields.
func F64(v float64) *float64 { return &v }
