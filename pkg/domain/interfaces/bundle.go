package interfaces

import (
	"context"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// BundleRepository defines the interface for TaskBundle data access.
// Bundle creation and disbanding belong to an external process.
type BundleRepository interface {
	// Get retrieves a bundle by ID
	Get(ctx context.Context, id types.BundleID) (*model.TaskBundle, error)

	// Put upserts a bundle
	Put(ctx context.Context, bundle *model.TaskBundle) error
}
