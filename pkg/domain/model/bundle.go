package model

import (
	"time"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// TaskBundle groups related tasks that are acted on together. While
// the bundle exists every member task carries its id; a task belongs
// to at most one bundle at a time. Bundles are created and disbanded
// by an external process.
type TaskBundle struct {
	ID            types.BundleID
	TaskIDs       []types.TaskID // ordered, unique
	PrimaryTaskID types.TaskID   // must be a member
	CreatedAt     time.Time
}

// Contains reports whether the given task is a member of the bundle.
func (b *TaskBundle) Contains(id types.TaskID) bool {
	for _, member := range b.TaskIDs {
		if member == id {
			return true
		}
	}
	return false
}
