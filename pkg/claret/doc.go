// Package claret reads the Claret & Bloemen (2011) quadratic limb-darkening
// grid from its local SQLite file.
//
// The on-disk contract is a single table named claret11 with six REAL
// columns: teff, logg, feh, veloc, mu1, mu2. Each row is one precomputed
// grid point; the file is written once by provisioning and never mutated.
//
// Lookups use a two-stage nearest-neighbor match: first the closest grid
// temperature, then the closest (logg, feh) among rows at that temperature.
// This is a greedy approximation of a true 3-D nearest neighbor and is kept
// deliberately; it is the historical behavior of the grid's original
// consumers, and changing it would silently return different coefficients
// for the same inputs.
package claret
