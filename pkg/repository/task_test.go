package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/repository/firestore"
	"github.com/mapcrew-lab/taskcoord/pkg/repository/memory"
)

func newFirestoreRepo(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	repo, err := firestore.New(context.Background(), projectID, "")
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func runTaskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get round-trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		task := &model.Task{
			ID:       101,
			ParentID: 7,
			Status:   types.TaskStatusCreated,
		}
		gt.NoError(t, repo.Task().Put(ctx, task)).Required()

		got, err := repo.Task().Get(ctx, 101)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(types.TaskID(101))
		gt.Value(t, got.ParentID).Equal(types.ProjectID(7))
		gt.Value(t, got.Status).Equal(types.TaskStatusCreated)
		gt.Value(t, got.ReviewStatus).Nil()
		gt.Value(t, got.LockOwner).Nil()
		gt.Bool(t, got.CreatedAt.IsZero()).False()
	})

	t.Run("Get missing task fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Get(ctx, 99999)
		gt.Value(t, err).NotNil()
	})

	t.Run("ListExpiredLocks returns only expired", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now().UTC()

		owner := types.UserID("U001")
		stale := now.Add(-time.Minute)
		fresh := now.Add(15 * time.Minute)

		gt.NoError(t, repo.Task().Put(ctx, &model.Task{
			ID: 201, ParentID: 7, LockOwner: &owner, LockExpiry: &stale,
		})).Required()
		gt.NoError(t, repo.Task().Put(ctx, &model.Task{
			ID: 202, ParentID: 7, LockOwner: &owner, LockExpiry: &fresh,
		})).Required()
		gt.NoError(t, repo.Task().Put(ctx, &model.Task{
			ID: 203, ParentID: 7,
		})).Required()

		expired, err := repo.Task().ListExpiredLocks(ctx, now)
		gt.NoError(t, err).Required()
		gt.Array(t, expired).Length(1)
		gt.Value(t, expired[0].ID).Equal(types.TaskID(201))
	})

	t.Run("Bundle Put and Get round-trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		bundle := &model.TaskBundle{
			ID:            30,
			TaskIDs:       []types.TaskID{301, 302, 303},
			PrimaryTaskID: 301,
		}
		gt.NoError(t, repo.Bundle().Put(ctx, bundle)).Required()

		got, err := repo.Bundle().Get(ctx, 30)
		gt.NoError(t, err).Required()
		gt.Array(t, got.TaskIDs).Length(3)
		gt.Value(t, got.PrimaryTaskID).Equal(types.TaskID(301))

		_, err = repo.Bundle().Get(ctx, 31)
		gt.Value(t, err).NotNil()
	})
}

func TestTaskRepository_Memory(t *testing.T) {
	runTaskRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestTaskRepository_Firestore(t *testing.T) {
	runTaskRepositoryTest(t, newFirestoreRepo)
}
