package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreTx adapts a firestore.Transaction to the Tx contract.
// Firestore transactions already buffer writes and retry on
// contention, so transactional reads give exclusive-row semantics.
type firestoreTx struct {
	tx      *firestore.Transaction
	task    *taskRepository
	bundle  *bundleRepository
	action  *actionRepository
	comment *commentRepository
	tag     *tagRepository
}

var _ interfaces.Tx = &firestoreTx{}

func (t *firestoreTx) GetTaskForUpdate(ctx context.Context, id types.TaskID) (*model.Task, error) {
	snap, err := t.tx.Get(t.task.doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("taskID", id))
		}
		return nil, goerr.Wrap(err, "failed to get task in tx", goerr.V("taskID", id))
	}

	var doc taskDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode task", goerr.V("taskID", id))
	}

	return doc.toModel(), nil
}

func (t *firestoreTx) GetBundle(ctx context.Context, id types.BundleID) (*model.TaskBundle, error) {
	snap, err := t.tx.Get(t.bundle.doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "bundle not found", goerr.V("bundleID", id))
		}
		return nil, goerr.Wrap(err, "failed to get bundle in tx", goerr.V("bundleID", id))
	}

	var doc bundleDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode bundle", goerr.V("bundleID", id))
	}

	return doc.toModel(), nil
}

func (t *firestoreTx) SaveLock(ctx context.Context, id types.TaskID, owner types.UserID, expiry time.Time) error {
	err := t.tx.Update(t.task.doc(id), []firestore.Update{
		{Path: "lockOwner", Value: string(owner)},
		{Path: "lockExpiry", Value: expiry.UTC()},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to save lock", goerr.V("taskID", id))
	}
	return nil
}

func (t *firestoreTx) ClearLock(ctx context.Context, id types.TaskID) error {
	err := t.tx.Update(t.task.doc(id), []firestore.Update{
		{Path: "lockOwner", Value: nil},
		{Path: "lockExpiry", Value: nil},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to clear lock", goerr.V("taskID", id))
	}
	return nil
}

func (t *firestoreTx) SaveStatus(ctx context.Context, id types.TaskID, taskStatus types.TaskStatus, completedBy types.UserID, responses map[string]any) error {
	updates := []firestore.Update{
		{Path: "status", Value: int(taskStatus)},
		{Path: "completedBy", Value: string(completedBy)},
		{Path: "updatedAt", Value: time.Now().UTC()},
	}
	if responses != nil {
		updates = append(updates, firestore.Update{Path: "completionResponses", Value: responses})
	}

	if err := t.tx.Update(t.task.doc(id), updates); err != nil {
		return goerr.Wrap(err, "failed to save status", goerr.V("taskID", id))
	}
	return nil
}

func (t *firestoreTx) SaveReviewStatus(ctx context.Context, id types.TaskID, reviewStatus types.ReviewStatus, reviewedBy, requestedBy *types.UserID) error {
	updates := []firestore.Update{
		{Path: "reviewStatus", Value: int(reviewStatus)},
		{Path: "updatedAt", Value: time.Now().UTC()},
	}
	if reviewedBy != nil {
		updates = append(updates, firestore.Update{Path: "reviewedBy", Value: string(*reviewedBy)})
	}
	if requestedBy != nil {
		updates = append(updates, firestore.Update{Path: "reviewRequestedBy", Value: string(*requestedBy)})
	}

	if err := t.tx.Update(t.task.doc(id), updates); err != nil {
		return goerr.Wrap(err, "failed to save review status", goerr.V("taskID", id))
	}
	return nil
}

func (t *firestoreTx) AppendAction(ctx context.Context, action *model.Action) error {
	doc := actionToDoc(action)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if err := t.tx.Set(t.action.doc(action.ID), doc); err != nil {
		return goerr.Wrap(err, "failed to append action",
			goerr.V("taskID", action.TaskID),
			goerr.V("actionID", action.ID))
	}
	return nil
}

func (t *firestoreTx) PutComment(ctx context.Context, taskID types.TaskID, actionID types.ActionID, actorID types.UserID, comment string) error {
	doc := &commentDoc{
		TaskID:    int64(taskID),
		ActionID:  string(actionID),
		ActorID:   string(actorID),
		Text:      comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := t.tx.Set(t.comment.newDoc(), doc); err != nil {
		return goerr.Wrap(err, "failed to put comment", goerr.V("taskID", taskID))
	}
	return nil
}

func (t *firestoreTx) PutTags(ctx context.Context, taskID types.TaskID, actionID types.ActionID, tags []string) error {
	values := make([]any, len(tags))
	for i, tag := range tags {
		values[i] = tag
	}

	err := t.tx.Set(t.tag.doc(taskID), map[string]any{
		"taskId": int64(taskID),
		"tags":   firestore.ArrayUnion(values...),
	}, firestore.MergeAll)
	if err != nil {
		return goerr.Wrap(err, "failed to put tags", goerr.V("taskID", taskID))
	}
	return nil
}
