package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/errutil"
)

// ReviewUseCase drives the review state machine. Anyone may request a
// review; every other transition is gated on reviewer capability for
// the task's project.
type ReviewUseCase struct {
	repo  interfaces.Repository
	authz interfaces.Authorizer
}

// ReviewOptions carries the optional parameters of a review transition
type ReviewOptions struct {
	// RelatedActionID links the review entry to the action-log entry of
	// the status change that triggered it, if any.
	RelatedActionID *types.ActionID

	Comment string
}

// SetReviewStatus applies one review transition to one task
func (uc *ReviewUseCase) SetReviewStatus(ctx context.Context, taskID types.TaskID, newStatus types.ReviewStatus, actorID types.UserID, opts ReviewOptions) error {
	if !newStatus.IsValid() {
		return goerr.Wrap(ErrInvalidReviewStatus, "invalid review status",
			goerr.V(TaskIDKey, taskID),
			goerr.V("review_status", int(newStatus)))
	}

	return uc.repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return taskReadError(err, taskID)
		}

		return uc.apply(ctx, tx, task, newStatus, actorID, opts, false)
	})
}

// RemoveReviewRequest forces each listed task's review state to
// UNNECESSARY, best-effort per task. Tasks never sent to review are
// skipped. Returns the number of tasks actually changed.
func (uc *ReviewUseCase) RemoveReviewRequest(ctx context.Context, taskIDs []types.TaskID, actorID types.UserID) (int, error) {
	changed := 0
	for _, taskID := range taskIDs {
		removed, err := uc.removeOne(ctx, taskID, actorID)
		if err != nil {
			errutil.Handle(ctx, err, "failed to remove review request for task")
			continue
		}
		if removed {
			changed++
		}
	}

	return changed, nil
}

func (uc *ReviewUseCase) removeOne(ctx context.Context, taskID types.TaskID, actorID types.UserID) (bool, error) {
	removed := false

	err := uc.repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return taskReadError(err, taskID)
		}

		if task.ReviewStatus == nil {
			return nil
		}

		if err := uc.apply(ctx, tx, task, types.ReviewStatusUnnecessary, actorID, ReviewOptions{}, true); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return removed, nil
}

// apply performs the transition on an already-read task inside tx. The
// status flow and the bundle coordinator call it directly so the
// transition shares their transaction. bypassAuthz skips the reviewer
// check for transitions forced by the system rather than chosen by a
// reviewer.
func (uc *ReviewUseCase) apply(ctx context.Context, tx interfaces.Tx, task *model.Task, newStatus types.ReviewStatus, actorID types.UserID, opts ReviewOptions, bypassAuthz bool) error {
	if !newStatus.IsValid() {
		return goerr.Wrap(ErrInvalidReviewStatus, "invalid review status",
			goerr.V(TaskIDKey, task.ID),
			goerr.V("review_status", int(newStatus)))
	}

	// Requesting a review is open to any actor. Deciding one is not.
	if !bypassAuthz && newStatus != types.ReviewStatusRequested {
		if err := uc.checkReviewer(ctx, actorID, task); err != nil {
			return err
		}
	}

	var reviewedBy, requestedBy *types.UserID
	actionType := types.ActionReviewStatusSet
	if newStatus == types.ReviewStatusRequested {
		actionType = types.ActionReviewRequested
		actor := actorID
		requestedBy = &actor
	} else {
		actor := actorID
		reviewedBy = &actor
	}

	if err := tx.SaveReviewStatus(ctx, task.ID, newStatus, reviewedBy, requestedBy); err != nil {
		return goerr.Wrap(err, "failed to save review status", goerr.V(TaskIDKey, task.ID))
	}

	var prevValue string
	if task.ReviewStatus != nil {
		prevValue = task.ReviewStatus.String()
	}

	action := &model.Action{
		ID:              types.NewActionID(),
		TaskID:          task.ID,
		ActorID:         actorID,
		Type:            actionType,
		PrevValue:       prevValue,
		NewValue:        newStatus.String(),
		RelatedActionID: opts.RelatedActionID,
		Comment:         opts.Comment,
	}
	if err := tx.AppendAction(ctx, action); err != nil {
		return goerr.Wrap(err, "failed to log review change", goerr.V(TaskIDKey, task.ID))
	}

	if opts.Comment != "" {
		if err := tx.PutComment(ctx, task.ID, action.ID, actorID, opts.Comment); err != nil {
			return goerr.Wrap(err, "failed to attach comment", goerr.V(TaskIDKey, task.ID))
		}
	}

	return nil
}

func (uc *ReviewUseCase) checkReviewer(ctx context.Context, actorID types.UserID, task *model.Task) error {
	if uc.authz == nil {
		return goerr.Wrap(ErrNotAuthorized, "no authorizer configured",
			goerr.V(TaskIDKey, task.ID),
			goerr.V(ActorIDKey, actorID))
	}

	ok, err := uc.authz.CanReview(ctx, actorID, task)
	if err != nil {
		return goerr.Wrap(err, "failed to check reviewer capability",
			goerr.V(TaskIDKey, task.ID),
			goerr.V(ActorIDKey, actorID))
	}
	if !ok {
		return goerr.Wrap(ErrNotAuthorized, "actor cannot review this task",
			goerr.V(TaskIDKey, task.ID),
			goerr.V(ActorIDKey, actorID))
	}

	return nil
}
