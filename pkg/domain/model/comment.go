package model

import (
	"time"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// Comment is free-text metadata attached to a task, linked to the
// action-log entry whose operation carried it.
type Comment struct {
	TaskID    types.TaskID
	ActionID  types.ActionID
	ActorID   types.UserID
	Text      string
	CreatedAt time.Time
}
