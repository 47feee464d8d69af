package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/errutil"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/logging"
)

// StatusUseCase validates and applies task lifecycle transitions. Any
// valid status is reachable from any other; validity of the target
// code is the only transition rule.
type StatusUseCase struct {
	repo   interfaces.Repository
	prefs  interfaces.Preferences
	review *ReviewUseCase
}

// StatusOptions carries the optional parameters of a status change
type StatusOptions struct {
	// RequestReview forces (true) or suppresses (false) a review
	// request. Nil defers to the actor's standing preference.
	RequestReview *bool

	// CompletionResponses is an opaque key/value payload stored with
	// the task when present.
	CompletionResponses map[string]any

	Comment string
	Tags    []string
}

// SetStatus applies one lifecycle transition to one task
func (uc *StatusUseCase) SetStatus(ctx context.Context, taskID types.TaskID, newStatus types.TaskStatus, actorID types.UserID, opts StatusOptions) error {
	if !newStatus.IsValid() {
		return goerr.Wrap(ErrInvalidTaskStatus, "invalid task status",
			goerr.V(TaskIDKey, taskID),
			goerr.V("status", int(newStatus)))
	}

	requestReview := uc.resolveRequestReview(ctx, actorID, opts.RequestReview)

	return uc.repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return taskReadError(err, taskID)
		}

		_, err = uc.apply(ctx, tx, task, newStatus, actorID, opts, requestReview)
		return err
	})
}

// BulkSetStatus applies the same transition to a pre-resolved task
// list, best-effort: one task's failure does not stop the rest.
// Returns the number of tasks actually changed.
func (uc *StatusUseCase) BulkSetStatus(ctx context.Context, taskIDs []types.TaskID, newStatus types.TaskStatus, actorID types.UserID, opts StatusOptions) (int, error) {
	if !newStatus.IsValid() {
		return 0, goerr.Wrap(ErrInvalidTaskStatus, "invalid task status",
			goerr.V("status", int(newStatus)))
	}

	changed := 0
	for _, taskID := range taskIDs {
		if err := uc.SetStatus(ctx, taskID, newStatus, actorID, opts); err != nil {
			errutil.Handle(ctx, err, "bulk status change failed for task")
			continue
		}
		changed++
	}

	return changed, nil
}

// apply performs the transition on an already-read task inside tx. The
// bundle coordinator calls it directly so all members share one
// transaction. Returns the id of the status action-log entry.
func (uc *StatusUseCase) apply(ctx context.Context, tx interfaces.Tx, task *model.Task, newStatus types.TaskStatus, actorID types.UserID, opts StatusOptions, requestReview bool) (types.ActionID, error) {
	if !newStatus.IsValid() {
		return "", goerr.Wrap(ErrInvalidTaskStatus, "invalid task status",
			goerr.V(TaskIDKey, task.ID),
			goerr.V("status", int(newStatus)))
	}

	if err := tx.SaveStatus(ctx, task.ID, newStatus, actorID, opts.CompletionResponses); err != nil {
		return "", goerr.Wrap(err, "failed to save status", goerr.V(TaskIDKey, task.ID))
	}

	actionType := types.ActionTaskStatusSet
	if newStatus == types.TaskStatusAnswered {
		actionType = types.ActionQuestionAnswered
	}

	action := &model.Action{
		ID:        types.NewActionID(),
		TaskID:    task.ID,
		ActorID:   actorID,
		Type:      actionType,
		PrevValue: task.Status.String(),
		NewValue:  newStatus.String(),
		Comment:   opts.Comment,
	}
	if err := tx.AppendAction(ctx, action); err != nil {
		return "", goerr.Wrap(err, "failed to log status change", goerr.V(TaskIDKey, task.ID))
	}

	if opts.Comment != "" {
		if err := tx.PutComment(ctx, task.ID, action.ID, actorID, opts.Comment); err != nil {
			return "", goerr.Wrap(err, "failed to attach comment", goerr.V(TaskIDKey, task.ID))
		}
	}

	if len(opts.Tags) > 0 {
		if err := tx.PutTags(ctx, task.ID, action.ID, opts.Tags); err != nil {
			return "", goerr.Wrap(err, "failed to attach tags", goerr.V(TaskIDKey, task.ID))
		}
	}

	if requestReview {
		if err := uc.review.apply(ctx, tx, task, types.ReviewStatusRequested, actorID, ReviewOptions{
			RelatedActionID: &action.ID,
		}, true); err != nil {
			return "", goerr.Wrap(err, "failed to request review", goerr.V(TaskIDKey, task.ID))
		}
	}

	return action.ID, nil
}

// resolveRequestReview decides whether the transition should chain a
// review request: an explicit flag wins, otherwise the actor's
// standing preference. A failed preference lookup is logged and
// treated as no preference.
func (uc *StatusUseCase) resolveRequestReview(ctx context.Context, actorID types.UserID, explicit *bool) bool {
	if explicit != nil {
		return *explicit
	}
	if uc.prefs == nil {
		return false
	}

	byDefault, err := uc.prefs.ReviewRequestedByDefault(ctx, actorID)
	if err != nil {
		logging.From(ctx).Warn("failed to look up review preference, assuming none",
			"actor", actorID, "error", err.Error())
		return false
	}
	return byDefault
}
