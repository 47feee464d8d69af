package interfaces

import (
	"context"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// ActionRepository defines read access to the append-only action log.
// Appends happen only through Tx so they commit or roll back with the
// transition that produced them.
type ActionRepository interface {
	// ListByTask retrieves all log entries for a task, newest first
	ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Action, error)
}
