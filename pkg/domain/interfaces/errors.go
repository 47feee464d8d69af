package interfaces

import "errors"

// ErrNotFound is returned by repositories and transactions when a
// requested entity does not exist. Backends wrap it so callers can
// tell a missing entity from a storage failure.
var ErrNotFound = errors.New("not found")
