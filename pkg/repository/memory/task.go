package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

type taskRepository struct {
	store *store
}

// copyTask creates a deep copy of a task
func copyTask(t *model.Task) *model.Task {
	copied := &model.Task{
		ID:            t.ID,
		ParentID:      t.ParentID,
		Status:        t.Status,
		BundlePrimary: t.BundlePrimary,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.ReviewStatus != nil {
		rs := *t.ReviewStatus
		copied.ReviewStatus = &rs
	}
	copied.CompletedBy = copyUserID(t.CompletedBy)
	copied.ReviewedBy = copyUserID(t.ReviewedBy)
	copied.ReviewRequestedBy = copyUserID(t.ReviewRequestedBy)
	copied.LockOwner = copyUserID(t.LockOwner)
	if t.LockExpiry != nil {
		exp := *t.LockExpiry
		copied.LockExpiry = &exp
	}
	if t.BundleID != nil {
		bid := *t.BundleID
		copied.BundleID = &bid
	}
	if t.CompletionResponses != nil {
		copied.CompletionResponses = make(map[string]any, len(t.CompletionResponses))
		for k, v := range t.CompletionResponses {
			copied.CompletionResponses[k] = v
		}
	}
	return copied
}

func copyUserID(id *types.UserID) *types.UserID {
	if id == nil {
		return nil
	}
	u := *id
	return &u
}

func (r *taskRepository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	task, exists := r.store.tasks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("taskID", id))
	}

	return copyTask(task), nil
}

func (r *taskRepository) Put(ctx context.Context, task *model.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := copyTask(task)
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.store.tasks[stored.ID] = stored
	return nil
}

func (r *taskRepository) ListExpiredLocks(ctx context.Context, now time.Time) ([]*model.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var result []*model.Task
	for _, task := range r.store.tasks {
		if task.LockExpiry != nil && !task.LockExpiry.After(now) {
			result = append(result, copyTask(task))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}
