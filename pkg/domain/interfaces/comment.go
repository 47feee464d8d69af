package interfaces

import (
	"context"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// CommentRepository defines read access to task comments. Writes go
// through Tx.PutComment.
type CommentRepository interface {
	// ListByTask retrieves all comments for a task, newest first
	ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Comment, error)
}
