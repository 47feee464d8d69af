package memory

import (
	"context"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

type tagRepository struct {
	store *store
}

func (r *tagRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tags := r.store.tags[taskID]
	result := make([]string, len(tags))
	copy(result, tags)

	return result, nil
}
