package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and storage adapters return
// these (optionally wrapped) so services can translate them into domain errors.
//
// For validation errors use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
