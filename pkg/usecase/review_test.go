package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/repository/memory"
	"github.com/mapcrew-lab/taskcoord/pkg/usecase"
)

// stubAuthz grants reviewer capability to a fixed set of users
type stubAuthz struct {
	reviewers map[types.UserID]bool
}

func (a *stubAuthz) CanReview(_ context.Context, actor types.UserID, _ *model.Task) (bool, error) {
	return a.reviewers[actor], nil
}

func (a *stubAuthz) IsProjectAdmin(_ context.Context, actor types.UserID, _ types.ProjectID) (bool, error) {
	return a.reviewers[actor], nil
}

func TestReview_RequestedIsOpenToAnyone(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithAuthorizer(&stubAuthz{reviewers: map[types.UserID]bool{"rita": true}}))
	ctx := context.Background()

	putTask(t, repo, &model.Task{ID: 300, ParentID: 7, Status: types.TaskStatusFixed})

	// alice is not a reviewer but may still request a review
	err := uc.Review.SetReviewStatus(ctx, 300, types.ReviewStatusRequested, "alice", usecase.ReviewOptions{})
	gt.NoError(t, err).Required()

	task, err := repo.Task().Get(ctx, 300)
	gt.NoError(t, err).Required()
	gt.Value(t, *task.ReviewStatus).Equal(types.ReviewStatusRequested)
	gt.Value(t, *task.ReviewRequestedBy).Equal(types.UserID("alice"))
	gt.Value(t, task.ReviewedBy).Nil()

	actions, err := repo.Action().ListByTask(ctx, 300)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(1)
	gt.Value(t, actions[0].Type).Equal(types.ActionReviewRequested)
}

func TestReview_DecisionNeedsReviewer(t *testing.T) {
	repo := memory.New()
	authz := &stubAuthz{reviewers: map[types.UserID]bool{"rita": true}}
	uc := usecase.New(repo, usecase.WithAuthorizer(authz))
	ctx := context.Background()

	requested := types.ReviewStatusRequested
	requester := types.UserID("alice")
	putTask(t, repo, &model.Task{
		ID:                301,
		ParentID:          7,
		Status:            types.TaskStatusFixed,
		ReviewStatus:      &requested,
		ReviewRequestedBy: &requester,
	})

	// A non-reviewer is denied and the state stays untouched
	err := uc.Review.SetReviewStatus(ctx, 301, types.ReviewStatusApproved, "bob", usecase.ReviewOptions{})
	gt.Error(t, err).Is(usecase.ErrNotAuthorized)

	task, err := repo.Task().Get(ctx, 301)
	gt.NoError(t, err).Required()
	gt.Value(t, *task.ReviewStatus).Equal(types.ReviewStatusRequested)
	gt.Value(t, task.ReviewedBy).Nil()

	actions, err := repo.Action().ListByTask(ctx, 301)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(0)

	// The reviewer succeeds
	err = uc.Review.SetReviewStatus(ctx, 301, types.ReviewStatusApproved, "rita", usecase.ReviewOptions{
		Comment: "looks right on imagery",
	})
	gt.NoError(t, err).Required()

	task, err = repo.Task().Get(ctx, 301)
	gt.NoError(t, err).Required()
	gt.Value(t, *task.ReviewStatus).Equal(types.ReviewStatusApproved)
	gt.Value(t, *task.ReviewedBy).Equal(types.UserID("rita"))

	actions, err = repo.Action().ListByTask(ctx, 301)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(1)
	gt.Value(t, actions[0].Type).Equal(types.ActionReviewStatusSet)
	gt.Value(t, actions[0].PrevValue).Equal("REQUESTED")
	gt.Value(t, actions[0].NewValue).Equal("APPROVED")

	comments, err := repo.Comment().ListByTask(ctx, 301)
	gt.NoError(t, err).Required()
	gt.Array(t, comments).Length(1)
}

func TestReview_NoAuthorizerDeniesDecisions(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	requested := types.ReviewStatusRequested
	putTask(t, repo, &model.Task{ID: 302, ParentID: 7, ReviewStatus: &requested})

	err := uc.Review.SetReviewStatus(ctx, 302, types.ReviewStatusApproved, "rita", usecase.ReviewOptions{})
	gt.Error(t, err).Is(usecase.ErrNotAuthorized)
}

func TestReview_InvalidStatus(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	putTask(t, repo, &model.Task{ID: 303, ParentID: 7})

	err := uc.Review.SetReviewStatus(ctx, 303, types.ReviewStatus(42), "alice", usecase.ReviewOptions{})
	gt.Error(t, err).Is(usecase.ErrInvalidReviewStatus)
}

func TestReview_RemoveReviewRequest(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	requested := types.ReviewStatusRequested
	requester := types.UserID("alice")
	putTask(t, repo, &model.Task{
		ID:                310,
		ParentID:          7,
		ReviewStatus:      &requested,
		ReviewRequestedBy: &requester,
	})
	// 311 was never sent to review, so it is skipped without error
	putTask(t, repo, &model.Task{ID: 311, ParentID: 7})

	changed, err := uc.Review.RemoveReviewRequest(ctx, []types.TaskID{310, 311, 312}, "admin")
	gt.NoError(t, err).Required()
	gt.Number(t, changed).Equal(1)

	task, err := repo.Task().Get(ctx, 310)
	gt.NoError(t, err).Required()
	gt.Value(t, *task.ReviewStatus).Equal(types.ReviewStatusUnnecessary)

	task, err = repo.Task().Get(ctx, 311)
	gt.NoError(t, err).Required()
	gt.Value(t, task.ReviewStatus).Nil()

	actions, err := repo.Action().ListByTask(ctx, 311)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(0)
}
