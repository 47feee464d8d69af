package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// memoryTx runs with the store mutex held by RunTx, so its reads are
// exclusive by construction. Writes are staged as closures and applied
// only when the transaction callback succeeds.
type memoryTx struct {
	store  *store
	staged []func(now time.Time)
}

var _ interfaces.Tx = &memoryTx{}

func (tx *memoryTx) commit() {
	now := time.Now().UTC()
	for _, apply := range tx.staged {
		apply(now)
	}
	tx.staged = nil
}

func (tx *memoryTx) stageTask(id types.TaskID, mutate func(task *model.Task)) {
	tx.staged = append(tx.staged, func(now time.Time) {
		task, exists := tx.store.tasks[id]
		if !exists {
			return
		}
		mutate(task)
		task.UpdatedAt = now
	})
}

func (tx *memoryTx) GetTaskForUpdate(ctx context.Context, id types.TaskID) (*model.Task, error) {
	task, exists := tx.store.tasks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("taskID", id))
	}
	return copyTask(task), nil
}

func (tx *memoryTx) GetBundle(ctx context.Context, id types.BundleID) (*model.TaskBundle, error) {
	bundle, exists := tx.store.bundles[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "bundle not found", goerr.V("bundleID", id))
	}
	return copyBundle(bundle), nil
}

func (tx *memoryTx) SaveLock(ctx context.Context, id types.TaskID, owner types.UserID, expiry time.Time) error {
	tx.stageTask(id, func(task *model.Task) {
		o := owner
		e := expiry
		task.LockOwner = &o
		task.LockExpiry = &e
	})
	return nil
}

func (tx *memoryTx) ClearLock(ctx context.Context, id types.TaskID) error {
	tx.stageTask(id, func(task *model.Task) {
		task.LockOwner = nil
		task.LockExpiry = nil
	})
	return nil
}

func (tx *memoryTx) SaveStatus(ctx context.Context, id types.TaskID, status types.TaskStatus, completedBy types.UserID, responses map[string]any) error {
	tx.stageTask(id, func(task *model.Task) {
		actor := completedBy
		task.Status = status
		task.CompletedBy = &actor
		if responses != nil {
			copied := make(map[string]any, len(responses))
			for k, v := range responses {
				copied[k] = v
			}
			task.CompletionResponses = copied
		}
	})
	return nil
}

func (tx *memoryTx) SaveReviewStatus(ctx context.Context, id types.TaskID, status types.ReviewStatus, reviewedBy, requestedBy *types.UserID) error {
	tx.stageTask(id, func(task *model.Task) {
		s := status
		task.ReviewStatus = &s
		if reviewedBy != nil {
			task.ReviewedBy = copyUserID(reviewedBy)
		}
		if requestedBy != nil {
			task.ReviewRequestedBy = copyUserID(requestedBy)
		}
	})
	return nil
}

func (tx *memoryTx) AppendAction(ctx context.Context, action *model.Action) error {
	entry := copyAction(action)
	tx.staged = append(tx.staged, func(now time.Time) {
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		tx.store.actions[entry.TaskID] = append(tx.store.actions[entry.TaskID], entry)
	})
	return nil
}

func (tx *memoryTx) PutComment(ctx context.Context, taskID types.TaskID, actionID types.ActionID, actorID types.UserID, comment string) error {
	tx.staged = append(tx.staged, func(now time.Time) {
		tx.store.comments[taskID] = append(tx.store.comments[taskID], &model.Comment{
			TaskID:    taskID,
			ActionID:  actionID,
			ActorID:   actorID,
			Text:      comment,
			CreatedAt: now,
		})
	})
	return nil
}

func (tx *memoryTx) PutTags(ctx context.Context, taskID types.TaskID, actionID types.ActionID, tags []string) error {
	staged := make([]string, len(tags))
	copy(staged, tags)
	tx.staged = append(tx.staged, func(now time.Time) {
		existing := tx.store.tags[taskID]
		for _, tag := range staged {
			if !containsTag(existing, tag) {
				existing = append(existing, tag)
			}
		}
		tx.store.tags[taskID] = existing
	})
	return nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
