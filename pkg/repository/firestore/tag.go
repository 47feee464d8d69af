package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type tagRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *tagRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_task_tags"
	}
	return "task_tags"
}

// One document per task holding the attached tag set
func (r *tagRepository) doc(taskID types.TaskID) *firestore.DocumentRef {
	return r.client.Collection(r.collection()).Doc(taskID.String())
}

type tagDoc struct {
	TaskID int64    `firestore:"taskId"`
	Tags   []string `firestore:"tags"`
}

func (r *tagRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]string, error) {
	snap, err := r.doc(taskID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return []string{}, nil
		}
		return nil, goerr.Wrap(err, "failed to get tags", goerr.V("taskID", taskID))
	}

	var doc tagDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode tags", goerr.V("taskID", taskID))
	}

	return doc.Tags, nil
}
