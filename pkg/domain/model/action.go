package model

import (
	"time"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// Action is one immutable entry of the append-only action log. Every
// lock, status and review transition produces one; entries are never
// mutated or deleted.
type Action struct {
	ID        types.ActionID
	TaskID    types.TaskID
	ActorID   types.UserID
	Type      types.ActionType
	PrevValue string
	NewValue  string

	// RelatedActionID links a review entry to the status entry that
	// triggered it, when the two were produced by one operation.
	RelatedActionID *types.ActionID

	Comment   string
	CreatedAt time.Time
}
