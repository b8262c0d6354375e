package analysis

import "errors"

// ErrNotFound is returned when an analysis does not exist.
var ErrNotFound = errors.New("analysis not found")
