package interfaces

import (
	"context"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// Authorizer answers capability questions for an actor. The identity
// itself is authenticated upstream; this core only asks what the actor
// may do.
type Authorizer interface {
	// CanReview reports whether the actor holds reviewer capability on
	// the task's owning project.
	CanReview(ctx context.Context, actor types.UserID, task *model.Task) (bool, error)

	// IsProjectAdmin reports whether the actor administers the project
	IsProjectAdmin(ctx context.Context, actor types.UserID, project types.ProjectID) (bool, error)
}

// Preferences exposes per-user standing preferences consulted when an
// operation does not state a choice explicitly.
type Preferences interface {
	// ReviewRequestedByDefault reports whether the user wants every
	// completed task sent to review.
	ReviewRequestedByDefault(ctx context.Context, user types.UserID) (bool, error)
}
