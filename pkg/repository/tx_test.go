package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/repository/memory"
)

func runTxTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("commit applies lock, action, comment and tags", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Task().Put(ctx, &model.Task{ID: 1, ParentID: 7})).Required()

		expiry := time.Now().UTC().Add(15 * time.Minute)
		actionID := types.NewActionID()

		err := repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
			if _, err := tx.GetTaskForUpdate(ctx, 1); err != nil {
				return err
			}
			if err := tx.SaveLock(ctx, 1, "U001", expiry); err != nil {
				return err
			}
			if err := tx.AppendAction(ctx, &model.Action{
				ID:      actionID,
				TaskID:  1,
				ActorID: "U001",
				Type:    types.ActionTaskClaimed,
			}); err != nil {
				return err
			}
			if err := tx.PutComment(ctx, 1, actionID, "U001", "claiming this one"); err != nil {
				return err
			}
			return tx.PutTags(ctx, 1, actionID, []string{"roads", "survey"})
		})
		gt.NoError(t, err).Required()

		task, err := repo.Task().Get(ctx, 1)
		gt.NoError(t, err).Required()
		gt.Value(t, *task.LockOwner).Equal(types.UserID("U001"))

		actions, err := repo.Action().ListByTask(ctx, 1)
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(1)
		gt.Value(t, actions[0].Type).Equal(types.ActionTaskClaimed)

		comments, err := repo.Comment().ListByTask(ctx, 1)
		gt.NoError(t, err).Required()
		gt.Array(t, comments).Length(1)
		gt.Value(t, comments[0].ActionID).Equal(actionID)

		tags, err := repo.Tag().ListByTask(ctx, 1)
		gt.NoError(t, err).Required()
		gt.Array(t, tags).Length(2)
	})

	t.Run("error discards all staged writes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Task().Put(ctx, &model.Task{ID: 2, ParentID: 7})).Required()

		boom := goerr.New("member failed")
		err := repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
			if err := tx.SaveStatus(ctx, 2, types.TaskStatusFixed, "U001", nil); err != nil {
				return err
			}
			if err := tx.AppendAction(ctx, &model.Action{
				ID:      types.NewActionID(),
				TaskID:  2,
				ActorID: "U001",
				Type:    types.ActionTaskStatusSet,
			}); err != nil {
				return err
			}
			return boom
		})
		gt.Error(t, err).Is(boom)

		task, err := repo.Task().Get(ctx, 2)
		gt.NoError(t, err).Required()
		gt.Value(t, task.Status).Equal(types.TaskStatusCreated)
		gt.Value(t, task.CompletedBy).Nil()

		actions, err := repo.Action().ListByTask(ctx, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(0)
	})

	t.Run("SaveReviewStatus records the right actor field", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Task().Put(ctx, &model.Task{ID: 3, ParentID: 7})).Required()

		requester := types.UserID("U001")
		err := repo.RunTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
			return tx.SaveReviewStatus(ctx, 3, types.ReviewStatusRequested, nil, &requester)
		})
		gt.NoError(t, err).Required()

		task, err := repo.Task().Get(ctx, 3)
		gt.NoError(t, err).Required()
		gt.Value(t, *task.ReviewStatus).Equal(types.ReviewStatusRequested)
		gt.Value(t, *task.ReviewRequestedBy).Equal(requester)
		gt.Value(t, task.ReviewedBy).Nil()
	})
}

func TestTx_Memory(t *testing.T) {
	runTxTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestTx_Firestore(t *testing.T) {
	runTxTest(t, newFirestoreRepo)
}
