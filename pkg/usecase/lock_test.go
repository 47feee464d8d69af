package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/repository/memory"
	"github.com/mapcrew-lab/taskcoord/pkg/usecase"
)

// testClock is a manually advanced clock for lock expiry scenarios
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func putTask(t *testing.T, repo *memory.Memory, task *model.Task) {
	t.Helper()
	gt.NoError(t, repo.Task().Put(context.Background(), task)).Required()
}

func TestLock_ClaimAndContention(t *testing.T) {
	repo := memory.New()
	clock := newTestClock()
	uc := usecase.New(repo, usecase.WithNow(clock.Now))
	ctx := context.Background()

	putTask(t, repo, &model.Task{ID: 100, ParentID: 7})

	task, err := uc.Lock.Claim(ctx, 100, "alice")
	gt.NoError(t, err).Required()
	gt.Value(t, *task.LockOwner).Equal(types.UserID("alice"))
	gt.Value(t, *task.LockExpiry).Equal(clock.Now().Add(usecase.DefaultLockDuration))

	// Another user cannot claim an unexpired lock
	_, err = uc.Lock.Claim(ctx, 100, "bob")
	gt.Error(t, err).Is(usecase.ErrTaskAlreadyLocked)

	// The holder re-claiming refreshes the expiry
	clock.Advance(5 * time.Minute)
	task, err = uc.Lock.Claim(ctx, 100, "alice")
	gt.NoError(t, err).Required()
	gt.Value(t, *task.LockExpiry).Equal(clock.Now().Add(usecase.DefaultLockDuration))

	locked, err := uc.Lock.IsLocked(ctx, 100)
	gt.NoError(t, err)
	gt.B(t, locked).True()
}

func TestLock_ExpiredLockIsClaimable(t *testing.T) {
	repo := memory.New()
	clock := newTestClock()
	uc := usecase.New(repo, usecase.WithNow(clock.Now), usecase.WithLockDuration(10*time.Minute))
	ctx := context.Background()

	putTask(t, repo, &model.Task{ID: 101, ParentID: 7})

	_, err := uc.Lock.Claim(ctx, 101, "alice")
	gt.NoError(t, err).Required()

	clock.Advance(10 * time.Minute)

	// Expiry has passed, so the lock counts as absent
	locked, err := uc.Lock.IsLocked(ctx, 101)
	gt.NoError(t, err)
	gt.B(t, locked).False()

	task, err := uc.Lock.Claim(ctx, 101, "bob")
	gt.NoError(t, err).Required()
	gt.Value(t, *task.LockOwner).Equal(types.UserID("bob"))
}

func TestLock_RefreshOnlyByHolder(t *testing.T) {
	repo := memory.New()
	clock := newTestClock()
	uc := usecase.New(repo, usecase.WithNow(clock.Now))
	ctx := context.Background()

	putTask(t, repo, &model.Task{ID: 102, ParentID: 7})

	_, err := uc.Lock.Claim(ctx, 102, "alice")
	gt.NoError(t, err).Required()

	_, err = uc.Lock.Refresh(ctx, 102, "bob")
	gt.Error(t, err).Is(usecase.ErrNotLockOwner)

	clock.Advance(time.Minute)
	task, err := uc.Lock.Refresh(ctx, 102, "alice")
	gt.NoError(t, err).Required()
	gt.Value(t, *task.LockExpiry).Equal(clock.Now().Add(usecase.DefaultLockDuration))

	// Once expired, even the former holder must re-claim
	clock.Advance(usecase.DefaultLockDuration)
	_, err = uc.Lock.Refresh(ctx, 102, "alice")
	gt.Error(t, err).Is(usecase.ErrNotLockOwner)
}

func TestLock_ReleaseIsPermissive(t *testing.T) {
	repo := memory.New()
	clock := newTestClock()
	uc := usecase.New(repo, usecase.WithNow(clock.Now))
	ctx := context.Background()

	putTask(t, repo, &model.Task{ID: 103, ParentID: 7})

	_, err := uc.Lock.Claim(ctx, 103, "alice")
	gt.NoError(t, err).Required()

	// A non-holder may release, and the log records who did it
	gt.NoError(t, uc.Lock.Release(ctx, 103, "bob"))

	locked, err := uc.Lock.IsLocked(ctx, 103)
	gt.NoError(t, err)
	gt.B(t, locked).False()

	actions, err := repo.Action().ListByTask(ctx, 103)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(2)
	gt.Value(t, actions[0].Type).Equal(types.ActionTaskReleased)
	gt.Value(t, actions[0].ActorID).Equal(types.UserID("bob"))
	gt.Value(t, actions[0].PrevValue).Equal("alice")

	// Releasing an unlocked task is a no-op success
	gt.NoError(t, uc.Lock.Release(ctx, 103, "carol"))
}

func TestLock_MissingTask(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	_, err := uc.Lock.Claim(ctx, 999, "alice")
	gt.Error(t, err).Is(usecase.ErrTaskNotFound)

	_, err = uc.Lock.Refresh(ctx, 999, "alice")
	gt.Error(t, err).Is(usecase.ErrTaskNotFound)

	gt.Error(t, uc.Lock.Release(ctx, 999, "alice")).Is(usecase.ErrTaskNotFound)

	_, err = uc.Lock.IsLocked(ctx, 999)
	gt.Error(t, err).Is(usecase.ErrTaskNotFound)
}
