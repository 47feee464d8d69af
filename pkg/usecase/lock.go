package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/errutil"
)

// LockUseCase grants, refreshes and releases time-bounded exclusive
// task locks. Claim is the only operation in the system that needs a
// pessimistic row lock: the exclusive read inside the transaction is
// what keeps two concurrent claims from both seeing an unlocked task.
type LockUseCase struct {
	repo         interfaces.Repository
	notifier     interfaces.NotificationSink
	lockDuration time.Duration
	now          func() time.Time
}

// Claim grants the task lock to userID until now+lockDuration. A
// re-claim by the current holder refreshes the expiry; a claim against
// another user's unexpired lock fails with ErrTaskAlreadyLocked.
func (uc *LockUseCase) Claim(ctx context.Context, taskID types.TaskID, userID types.UserID) (*model.Task, error) {
	var claimed *model.Task

	err := uc.repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return taskReadError(err, taskID)
		}

		now := uc.now()
		if task.LockedAt(now) && *task.LockOwner != userID {
			return goerr.Wrap(ErrTaskAlreadyLocked, "task is locked by another user",
				goerr.V(TaskIDKey, taskID),
				goerr.V(ActorIDKey, userID),
				goerr.V("lock_owner", *task.LockOwner))
		}

		expiry := now.Add(uc.lockDuration)
		if err := tx.SaveLock(ctx, taskID, userID, expiry); err != nil {
			return goerr.Wrap(err, "failed to save lock", goerr.V(TaskIDKey, taskID))
		}

		if err := tx.AppendAction(ctx, &model.Action{
			ID:       types.NewActionID(),
			TaskID:   taskID,
			ActorID:  userID,
			Type:     types.ActionTaskClaimed,
			NewValue: string(userID),
		}); err != nil {
			return goerr.Wrap(err, "failed to log claim", goerr.V(TaskIDKey, taskID))
		}

		owner := userID
		task.LockOwner = &owner
		task.LockExpiry = &expiry
		claimed = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		if err := uc.notifier.TaskClaimed(ctx, claimed, userID); err != nil {
			errutil.Handle(ctx, err, "failed to notify task claimed")
		}
	}

	return claimed, nil
}

// Refresh extends the lock expiry to now+lockDuration, only for the
// current holder of an unexpired lock. An expired lock is treated as
// absent, so refreshing it fails and the caller must re-claim.
func (uc *LockUseCase) Refresh(ctx context.Context, taskID types.TaskID, userID types.UserID) (*model.Task, error) {
	var refreshed *model.Task

	err := uc.repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return taskReadError(err, taskID)
		}

		now := uc.now()
		if !task.LockHeldBy(userID, now) {
			return goerr.Wrap(ErrNotLockOwner, "lock is not held by user",
				goerr.V(TaskIDKey, taskID),
				goerr.V(ActorIDKey, userID))
		}

		expiry := now.Add(uc.lockDuration)
		if err := tx.SaveLock(ctx, taskID, userID, expiry); err != nil {
			return goerr.Wrap(err, "failed to save lock", goerr.V(TaskIDKey, taskID))
		}

		task.LockExpiry = &expiry
		refreshed = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return refreshed, nil
}

// Release clears the lock whoever holds it. The permissiveness is
// deliberate: a crashed client must not leave a task stuck until
// expiry, so ownership mismatches are not errors. The released log
// entry records the actor, which keeps misuse auditable.
func (uc *LockUseCase) Release(ctx context.Context, taskID types.TaskID, userID types.UserID) error {
	var released *model.Task

	err := uc.repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return taskReadError(err, taskID)
		}

		var prevOwner string
		if task.LockOwner != nil {
			prevOwner = string(*task.LockOwner)
		}

		if err := tx.ClearLock(ctx, taskID); err != nil {
			return goerr.Wrap(err, "failed to clear lock", goerr.V(TaskIDKey, taskID))
		}

		if err := tx.AppendAction(ctx, &model.Action{
			ID:        types.NewActionID(),
			TaskID:    taskID,
			ActorID:   userID,
			Type:      types.ActionTaskReleased,
			PrevValue: prevOwner,
		}); err != nil {
			return goerr.Wrap(err, "failed to log release", goerr.V(TaskIDKey, taskID))
		}

		task.LockOwner = nil
		task.LockExpiry = nil
		released = task
		return nil
	})
	if err != nil {
		return err
	}

	if uc.notifier != nil {
		if err := uc.notifier.TaskReleased(ctx, released, userID); err != nil {
			errutil.Handle(ctx, err, "failed to notify task released")
		}
	}

	return nil
}

// IsLocked reports whether the task holds an unexpired lock
func (uc *LockUseCase) IsLocked(ctx context.Context, taskID types.TaskID) (bool, error) {
	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		return false, taskReadError(err, taskID)
	}

	return task.LockedAt(uc.now()), nil
}
