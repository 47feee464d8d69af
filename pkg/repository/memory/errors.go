package memory

import "github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"

// ErrNotFound is returned when a requested entity does not exist.
// Shared with the other backends through the interfaces sentinel.
var ErrNotFound = interfaces.ErrNotFound
