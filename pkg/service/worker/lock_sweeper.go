package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/logging"
)

// SweeperActorID is the actor recorded on lock releases performed by
// the sweeper rather than a user.
const SweeperActorID = types.UserID("system:lock-sweeper")

// DefaultSweepInterval is how often the sweeper scans for expired locks
const DefaultSweepInterval = time.Minute

// LockSweeper clears expired locks in the background. An expired lock
// already counts as absent for every read path, so sweeping is storage
// hygiene: it keeps the expired-lock query result small and makes the
// release visible in the action log.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type LockSweeper struct {
	repo     interfaces.Repository
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

type SweeperOption func(*LockSweeper)

// WithSweepInterval overrides the scan interval
func WithSweepInterval(interval time.Duration) SweeperOption {
	return func(w *LockSweeper) {
		w.interval = interval
	}
}

// WithSweepNow overrides the clock, for tests
func WithSweepNow(now func() time.Time) SweeperOption {
	return func(w *LockSweeper) {
		w.now = now
	}
}

func NewLockSweeper(repo interfaces.Repository, opts ...SweeperOption) *LockSweeper {
	w := &LockSweeper{
		repo:     repo,
		interval: DefaultSweepInterval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start begins the background sweep loop. Does not block server
// startup.
func (w *LockSweeper) Start(ctx context.Context) error {
	logging.Default().Info("lock sweeper starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *LockSweeper) Stop() {
	logging.Default().Info("lock sweeper stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("lock sweeper stopped")
}

func (w *LockSweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if swept, err := w.Sweep(ctx); err != nil {
				logging.Default().Error("lock sweep failed (will retry next interval)",
					"error", err.Error())
			} else if swept > 0 {
				logging.Default().Info("swept expired locks", "count", swept)
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("lock sweeper context cancelled")
			return
		}
	}
}

// Sweep performs a single pass: list expired locks, then clear each in
// its own transaction. The expiry is re-checked inside the transaction
// because the holder may have refreshed between the scan and the
// clear. Returns how many locks were cleared.
func (w *LockSweeper) Sweep(ctx context.Context) (int, error) {
	now := w.now()

	expired, err := w.repo.Task().ListExpiredLocks(ctx, now)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list expired locks")
	}

	swept := 0
	for _, candidate := range expired {
		cleared, err := w.sweepOne(ctx, candidate.ID, now)
		if err != nil {
			logging.Default().Error("failed to sweep lock",
				"task_id", candidate.ID, "error", err.Error())
			continue
		}
		if cleared {
			swept++
		}
	}

	return swept, nil
}

func (w *LockSweeper) sweepOne(ctx context.Context, taskID types.TaskID, now time.Time) (bool, error) {
	cleared := false

	err := w.repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return goerr.Wrap(err, "failed to read task", goerr.V("task_id", taskID))
		}

		if task.LockExpiry == nil || task.LockedAt(now) {
			return nil
		}

		var prevOwner string
		if task.LockOwner != nil {
			prevOwner = string(*task.LockOwner)
		}

		if err := tx.ClearLock(ctx, taskID); err != nil {
			return goerr.Wrap(err, "failed to clear lock", goerr.V("task_id", taskID))
		}

		if err := tx.AppendAction(ctx, &model.Action{
			ID:        types.NewActionID(),
			TaskID:    taskID,
			ActorID:   SweeperActorID,
			Type:      types.ActionTaskReleased,
			PrevValue: prevOwner,
		}); err != nil {
			return goerr.Wrap(err, "failed to log sweep", goerr.V("task_id", taskID))
		}

		cleared = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return cleared, nil
}
