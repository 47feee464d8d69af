package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type actionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *actionRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_actions"
	}
	return "actions"
}

func (r *actionRepository) doc(id types.ActionID) *firestore.DocumentRef {
	return r.client.Collection(r.collection()).Doc(id.String())
}

type actionDoc struct {
	ID              string    `firestore:"id"`
	TaskID          int64     `firestore:"taskId"`
	ActorID         string    `firestore:"actorId"`
	Type            string    `firestore:"type"`
	PrevValue       string    `firestore:"prevValue"`
	NewValue        string    `firestore:"newValue"`
	RelatedActionID *string   `firestore:"relatedActionId"`
	Comment         string    `firestore:"comment"`
	CreatedAt       time.Time `firestore:"createdAt"`
}

func actionToDoc(a *model.Action) *actionDoc {
	doc := &actionDoc{
		ID:        string(a.ID),
		TaskID:    int64(a.TaskID),
		ActorID:   string(a.ActorID),
		Type:      string(a.Type),
		PrevValue: a.PrevValue,
		NewValue:  a.NewValue,
		Comment:   a.Comment,
		CreatedAt: a.CreatedAt,
	}
	if a.RelatedActionID != nil {
		rel := string(*a.RelatedActionID)
		doc.RelatedActionID = &rel
	}
	return doc
}

func (d *actionDoc) toModel() *model.Action {
	a := &model.Action{
		ID:        types.ActionID(d.ID),
		TaskID:    types.TaskID(d.TaskID),
		ActorID:   types.UserID(d.ActorID),
		Type:      types.ActionType(d.Type),
		PrevValue: d.PrevValue,
		NewValue:  d.NewValue,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
	}
	if d.RelatedActionID != nil {
		rel := types.ActionID(*d.RelatedActionID)
		a.RelatedActionID = &rel
	}
	return a
}

func (r *actionRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Action, error) {
	// taskId+createdAt needs the composite index managed by `taskcoord migrate`
	iter := r.client.Collection(r.collection()).
		Where("taskId", "==", int64(taskID)).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Action
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate actions", goerr.V("taskID", taskID))
		}

		var doc actionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode action")
		}
		result = append(result, doc.toModel())
	}

	return result, nil
}
