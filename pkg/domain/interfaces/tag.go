package interfaces

import (
	"context"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// TagRepository defines read access to task tags. Writes go through
// Tx.PutTags. Tag semantics beyond attachment are out of scope.
type TagRepository interface {
	// ListByTask retrieves all tags attached to a task
	ListByTask(ctx context.Context, taskID types.TaskID) ([]string, error)
}
