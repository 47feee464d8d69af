package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type commentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *commentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_comments"
	}
	return "comments"
}

func (r *commentRepository) newDoc() *firestore.DocumentRef {
	return r.client.Collection(r.collection()).Doc(uuid.New().String())
}

type commentDoc struct {
	TaskID    int64     `firestore:"taskId"`
	ActionID  string    `firestore:"actionId"`
	ActorID   string    `firestore:"actorId"`
	Text      string    `firestore:"text"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func (d *commentDoc) toModel() *model.Comment {
	return &model.Comment{
		TaskID:    types.TaskID(d.TaskID),
		ActionID:  types.ActionID(d.ActionID),
		ActorID:   types.UserID(d.ActorID),
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Comment, error) {
	// taskId+createdAt needs the composite index managed by `taskcoord migrate`
	iter := r.client.Collection(r.collection()).
		Where("taskId", "==", int64(taskID)).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Comment
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate comments", goerr.V("taskID", taskID))
		}

		var doc commentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode comment")
		}
		result = append(result, doc.toModel())
	}

	return result, nil
}
