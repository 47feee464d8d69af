package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// BundleUseCase applies one transition to every member of a bundle in
// a single transaction. Unlike the bulk operations, bundle application
// is all-or-nothing: one member failing aborts the whole change.
type BundleUseCase struct {
	repo   interfaces.Repository
	status *StatusUseCase
	review *ReviewUseCase
}

// BundleResult reports what a bundle operation touched
type BundleResult struct {
	BundleID types.BundleID
	TaskIDs  []types.TaskID
	Applied  int
}

// ApplyBundleStatus sets the same lifecycle status on every task in
// the bundle. primaryTaskID names the member whose change triggered
// the fan-out and must belong to the bundle.
func (uc *BundleUseCase) ApplyBundleStatus(ctx context.Context, bundleID types.BundleID, primaryTaskID types.TaskID, newStatus types.TaskStatus, actorID types.UserID, opts StatusOptions) (*BundleResult, error) {
	if !newStatus.IsValid() {
		return nil, goerr.Wrap(ErrInvalidTaskStatus, "invalid task status",
			goerr.V(BundleIDKey, bundleID),
			goerr.V("status", int(newStatus)))
	}

	requestReview := uc.status.resolveRequestReview(ctx, actorID, opts.RequestReview)

	var result *BundleResult
	err := uc.repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		bundle, tasks, err := uc.readMembers(ctx, tx, bundleID, primaryTaskID)
		if err != nil {
			return err
		}

		for _, task := range tasks {
			if _, err := uc.status.apply(ctx, tx, task, newStatus, actorID, opts, requestReview); err != nil {
				return goerr.Wrap(err, "bundle status change aborted",
					goerr.V(BundleIDKey, bundleID),
					goerr.V(TaskIDKey, task.ID))
			}
		}

		result = &BundleResult{
			BundleID: bundle.ID,
			TaskIDs:  bundle.TaskIDs,
			Applied:  len(tasks),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ApplyBundleReviewStatus sets the same review status on every task in
// the bundle, in one transaction.
func (uc *BundleUseCase) ApplyBundleReviewStatus(ctx context.Context, bundleID types.BundleID, primaryTaskID types.TaskID, newStatus types.ReviewStatus, actorID types.UserID, opts ReviewOptions) (*BundleResult, error) {
	if !newStatus.IsValid() {
		return nil, goerr.Wrap(ErrInvalidReviewStatus, "invalid review status",
			goerr.V(BundleIDKey, bundleID),
			goerr.V("review_status", int(newStatus)))
	}

	var result *BundleResult
	err := uc.repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		bundle, tasks, err := uc.readMembers(ctx, tx, bundleID, primaryTaskID)
		if err != nil {
			return err
		}

		for _, task := range tasks {
			if err := uc.review.apply(ctx, tx, task, newStatus, actorID, opts, false); err != nil {
				return goerr.Wrap(err, "bundle review change aborted",
					goerr.V(BundleIDKey, bundleID),
					goerr.V(TaskIDKey, task.ID))
			}
		}

		result = &BundleResult{
			BundleID: bundle.ID,
			TaskIDs:  bundle.TaskIDs,
			Applied:  len(tasks),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// readMembers loads the bundle and all member tasks before any write,
// which backends requiring reads-first depend on. A missing member
// aborts the operation.
func (uc *BundleUseCase) readMembers(ctx context.Context, tx interfaces.Tx, bundleID types.BundleID, primaryTaskID types.TaskID) (*model.TaskBundle, []*model.Task, error) {
	bundle, err := tx.GetBundle(ctx, bundleID)
	if err != nil {
		return nil, nil, bundleReadError(err, bundleID)
	}

	if !bundle.Contains(primaryTaskID) {
		return nil, nil, goerr.Wrap(ErrPrimaryNotMember, "primary task is not a bundle member",
			goerr.V(BundleIDKey, bundleID),
			goerr.V(TaskIDKey, primaryTaskID))
	}

	tasks := make([]*model.Task, 0, len(bundle.TaskIDs))
	for _, taskID := range bundle.TaskIDs {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return nil, nil, goerr.Wrap(taskReadError(err, taskID), "failed to read bundle member",
				goerr.V(BundleIDKey, bundleID))
		}
		tasks = append(tasks, task)
	}

	return bundle, tasks, nil
}
