package model

import (
	"time"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// Task represents a unit of correction work. Tasks are created by an
// external process; this core mutates only the lock fields (Lock
// Manager) and the status/review fields (state machines). Tasks are
// never hard-deleted here, only moved to TaskStatusDeleted.
type Task struct {
	ID       types.TaskID
	ParentID types.ProjectID // owning challenge, immutable

	Status              types.TaskStatus
	ReviewStatus        *types.ReviewStatus // nil until the task first enters review
	CompletedBy         *types.UserID
	ReviewedBy          *types.UserID
	ReviewRequestedBy   *types.UserID
	CompletionResponses map[string]any

	// The lock is a derived view of these two fields: owner is set iff
	// expiry is set, and an expired lock counts as absent.
	LockOwner  *types.UserID
	LockExpiry *time.Time

	BundleID      *types.BundleID
	BundlePrimary bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LockedAt reports whether the task holds an unexpired lock at the
// given instant.
func (t *Task) LockedAt(now time.Time) bool {
	return t.LockOwner != nil && t.LockExpiry != nil && t.LockExpiry.After(now)
}

// LockHeldBy reports whether the task's unexpired lock is held by the
// given user.
func (t *Task) LockHeldBy(user types.UserID, now time.Time) bool {
	return t.LockedAt(now) && *t.LockOwner == user
}
