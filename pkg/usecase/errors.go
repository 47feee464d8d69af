package usecase

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrTaskNotFound   = errors.New("task not found")
	ErrBundleNotFound = errors.New("bundle not found")

	// Lock errors
	ErrTaskAlreadyLocked = errors.New("task is locked by another user")
	ErrNotLockOwner      = errors.New("lock is not held by user")

	// Validation errors
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidReviewStatus = errors.New("invalid review status")

	// Access control errors
	ErrNotAuthorized = errors.New("not authorized")

	// Bundle errors
	ErrPrimaryNotMember = errors.New("primary task is not a bundle member")
)

// Context keys for error values
const (
	TaskIDKey   = "task_id"
	BundleIDKey = "bundle_id"
	ActorIDKey  = "actor_id"
)

// taskReadError classifies a failed task read: only a missing task
// becomes ErrTaskNotFound. Anything else is a storage failure and
// keeps its cause in the chain.
func taskReadError(err error, id types.TaskID) error {
	if errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}
	return goerr.Wrap(err, "failed to read task", goerr.V(TaskIDKey, id))
}

// bundleReadError classifies a failed bundle read the same way
func bundleReadError(err error, id types.BundleID) error {
	if errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(ErrBundleNotFound, "bundle not found", goerr.V(BundleIDKey, id))
	}
	return goerr.Wrap(err, "failed to read bundle", goerr.V(BundleIDKey, id))
}
