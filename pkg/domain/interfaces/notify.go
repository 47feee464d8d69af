package interfaces

import (
	"context"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// NotificationSink receives lock lifecycle events. Delivery is
// fire-and-forget: failures are logged by the caller, never
// propagated.
type NotificationSink interface {
	TaskClaimed(ctx context.Context, task *model.Task, actor types.UserID) error
	TaskReleased(ctx context.Context, task *model.Task, actor types.UserID) error
}
