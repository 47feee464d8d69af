package interfaces

import (
	"context"
	"time"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// TaskRepository defines the interface for Task data access outside of
// transactions. Task creation itself belongs to an external process;
// Put exists for that process, seeding, and tests.
type TaskRepository interface {
	// Get retrieves a task by ID
	Get(ctx context.Context, id types.TaskID) (*model.Task, error)

	// Put upserts a task
	Put(ctx context.Context, task *model.Task) error

	// ListExpiredLocks returns tasks whose lock expiry has passed the
	// given instant. Used by the lock sweeper.
	ListExpiredLocks(ctx context.Context, now time.Time) ([]*model.Task, error)
}
