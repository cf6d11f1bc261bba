// Package provision ensures a local copy of the coefficient dataset exists.
//
// The dataset is a single small file fetched once from a fixed URL. Once
// present it is treated as authoritative: no re-validation, no TTL, no
// re-download unless the caller explicitly asks for one. Downloads are
// written to a temporary file and renamed into place so that a concurrent
// reader never observes a partially written dataset.
package provision
