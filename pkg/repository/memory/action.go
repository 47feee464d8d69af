package memory

import (
	"context"
	"sort"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

type actionRepository struct {
	store *store
}

// copyAction creates a deep copy of an action-log entry
func copyAction(a *model.Action) *model.Action {
	copied := &model.Action{
		ID:        a.ID,
		TaskID:    a.TaskID,
		ActorID:   a.ActorID,
		Type:      a.Type,
		PrevValue: a.PrevValue,
		NewValue:  a.NewValue,
		Comment:   a.Comment,
		CreatedAt: a.CreatedAt,
	}
	if a.RelatedActionID != nil {
		rel := *a.RelatedActionID
		copied.RelatedActionID = &rel
	}
	return copied
}

func (r *actionRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Action, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := r.store.actions[taskID]
	result := make([]*model.Action, 0, len(entries))
	for _, a := range entries {
		result = append(result, copyAction(a))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}
