package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Blob drivers and the appointment
// store return these (optionally wrapped) so services can translate them into
// domain errors.
//
//   - ErrNotFound: key or record does not exist
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var ErrNotFound = errors.New("not found")
