package interfaces

import (
	"context"
	"time"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	Task() TaskRepository
	Bundle() BundleRepository
	Action() ActionRepository
	Comment() CommentRepository
	Tag() TagRepository

	// RunTx executes fn inside one storage transaction. All writes made
	// through the Tx are committed iff fn returns nil; any error
	// discards them. Concurrent transactions touching the same task are
	// serialized by the backend, which is what makes the claim
	// check-then-write race-free.
	RunTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	Close() error
}

// Tx is the transaction-scoped mutation surface. Backends may require
// all reads to happen before the first write (Firestore does), so
// callers collect every GetTaskForUpdate/GetBundle result up front and
// only then write.
type Tx interface {
	// GetTaskForUpdate reads a task with exclusive row semantics: no
	// concurrent transaction can act on the same task until this one
	// finishes.
	GetTaskForUpdate(ctx context.Context, id types.TaskID) (*model.Task, error)

	// GetBundle reads a bundle inside the transaction
	GetBundle(ctx context.Context, id types.BundleID) (*model.TaskBundle, error)

	// SaveLock sets the lock owner and expiry on a task
	SaveLock(ctx context.Context, id types.TaskID, owner types.UserID, expiry time.Time) error

	// ClearLock removes any lock from a task
	ClearLock(ctx context.Context, id types.TaskID) error

	// SaveStatus persists a lifecycle transition: the new status, the
	// completing actor, and the optional completion responses.
	SaveStatus(ctx context.Context, id types.TaskID, status types.TaskStatus, completedBy types.UserID, responses map[string]any) error

	// SaveReviewStatus persists a review transition. Exactly one of
	// reviewedBy / requestedBy is set, depending on the target status.
	SaveReviewStatus(ctx context.Context, id types.TaskID, status types.ReviewStatus, reviewedBy, requestedBy *types.UserID) error

	// AppendAction appends an entry to the action log
	AppendAction(ctx context.Context, action *model.Action) error

	// PutComment attaches a comment to a task, linked to the action-log
	// entry that produced it.
	PutComment(ctx context.Context, taskID types.TaskID, actionID types.ActionID, actorID types.UserID, comment string) error

	// PutTags attaches tags to a task, linked to the action-log entry
	// that produced them.
	PutTags(ctx context.Context, taskID types.TaskID, actionID types.ActionID, tags []string) error
}
