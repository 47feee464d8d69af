package types

import (
	"strconv"

	"github.com/google/uuid"
)

// TaskID identifies a task. Assigned by the external task-creation
// process, unique and immutable.
type TaskID int64

func (id TaskID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ProjectID identifies the challenge/project owning a task.
type ProjectID int64

func (id ProjectID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// BundleID identifies a task bundle.
type BundleID int64

func (id BundleID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UserID identifies an actor. Actor identity is always passed
// explicitly; there is no ambient session context.
type UserID string

func (id UserID) String() string {
	return string(id)
}

// ActionID identifies an action-log entry
type ActionID string

func (id ActionID) String() string {
	return string(id)
}

// NewActionID generates a new random ActionID
func NewActionID() ActionID {
	return ActionID(uuid.New().String())
}
