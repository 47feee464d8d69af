package memory

import (
	"context"
	"sort"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

type commentRepository struct {
	store *store
}

func copyComment(c *model.Comment) *model.Comment {
	copied := *c
	return &copied
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := r.store.comments[taskID]
	result := make([]*model.Comment, 0, len(entries))
	for _, c := range entries {
		result = append(result, copyComment(c))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}
