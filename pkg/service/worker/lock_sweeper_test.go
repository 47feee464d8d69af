package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/repository/memory"
	"github.com/mapcrew-lab/taskcoord/pkg/service/worker"
)

func TestLockSweeper_Sweep(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	alice := types.UserID("alice")
	bob := types.UserID("bob")
	expired := now.Add(-time.Minute)
	active := now.Add(10 * time.Minute)

	gt.NoError(t, repo.Task().Put(ctx, &model.Task{
		ID: 1, ParentID: 7, LockOwner: &alice, LockExpiry: &expired,
	})).Required()
	gt.NoError(t, repo.Task().Put(ctx, &model.Task{
		ID: 2, ParentID: 7, LockOwner: &bob, LockExpiry: &active,
	})).Required()
	gt.NoError(t, repo.Task().Put(ctx, &model.Task{ID: 3, ParentID: 7})).Required()

	sweeper := worker.NewLockSweeper(repo, worker.WithSweepNow(func() time.Time { return now }))

	swept, err := sweeper.Sweep(ctx)
	gt.NoError(t, err).Required()
	gt.Number(t, swept).Equal(1)

	// The expired lock is gone and the release is logged
	task, err := repo.Task().Get(ctx, 1)
	gt.NoError(t, err).Required()
	gt.Value(t, task.LockOwner).Nil()
	gt.Value(t, task.LockExpiry).Nil()

	actions, err := repo.Action().ListByTask(ctx, 1)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(1)
	gt.Value(t, actions[0].Type).Equal(types.ActionTaskReleased)
	gt.Value(t, actions[0].ActorID).Equal(worker.SweeperActorID)
	gt.Value(t, actions[0].PrevValue).Equal("alice")

	// The active lock is untouched
	task, err = repo.Task().Get(ctx, 2)
	gt.NoError(t, err).Required()
	gt.Value(t, *task.LockOwner).Equal(bob)
}

func TestLockSweeper_RefreshBetweenScanAndClear(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	alice := types.UserID("alice")
	expired := now.Add(-time.Minute)
	gt.NoError(t, repo.Task().Put(ctx, &model.Task{
		ID: 1, ParentID: 7, LockOwner: &alice, LockExpiry: &expired,
	})).Required()

	// Simulate a refresh landing after the scan: the sweeper's clock is
	// behind the new expiry, so the re-check inside the transaction must
	// leave the lock alone.
	refreshed := now.Add(15 * time.Minute)
	gt.NoError(t, repo.Task().Put(ctx, &model.Task{
		ID: 1, ParentID: 7, LockOwner: &alice, LockExpiry: &refreshed,
	})).Required()

	sweeper := worker.NewLockSweeper(repo, worker.WithSweepNow(func() time.Time { return now }))

	swept, err := sweeper.Sweep(ctx)
	gt.NoError(t, err).Required()
	gt.Number(t, swept).Equal(0)

	task, err := repo.Task().Get(ctx, 1)
	gt.NoError(t, err).Required()
	gt.Value(t, *task.LockOwner).Equal(alice)
}

func TestLockSweeper_StartStop(t *testing.T) {
	repo := memory.New()
	sweeper := worker.NewLockSweeper(repo, worker.WithSweepInterval(time.Hour))

	gt.NoError(t, sweeper.Start(context.Background()))
	sweeper.Stop()
}
