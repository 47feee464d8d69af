package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

type bundleRepository struct {
	store *store
}

// copyBundle creates a deep copy of a bundle
func copyBundle(b *model.TaskBundle) *model.TaskBundle {
	taskIDs := make([]types.TaskID, len(b.TaskIDs))
	copy(taskIDs, b.TaskIDs)

	return &model.TaskBundle{
		ID:            b.ID,
		TaskIDs:       taskIDs,
		PrimaryTaskID: b.PrimaryTaskID,
		CreatedAt:     b.CreatedAt,
	}
}

func (r *bundleRepository) Get(ctx context.Context, id types.BundleID) (*model.TaskBundle, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bundle, exists := r.store.bundles[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "bundle not found", goerr.V("bundleID", id))
	}

	return copyBundle(bundle), nil
}

func (r *bundleRepository) Put(ctx context.Context, bundle *model.TaskBundle) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := copyBundle(bundle)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.store.bundles[stored.ID] = stored
	return nil
}
