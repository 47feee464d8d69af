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

type bundleRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *bundleRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_bundles"
	}
	return "bundles"
}

func (r *bundleRepository) doc(id types.BundleID) *firestore.DocumentRef {
	return r.client.Collection(r.collection()).Doc(id.String())
}

type bundleDoc struct {
	ID            int64     `firestore:"id"`
	TaskIDs       []int64   `firestore:"taskIds"`
	PrimaryTaskID int64     `firestore:"primaryTaskId"`
	CreatedAt     time.Time `firestore:"createdAt"`
}

func bundleToDoc(b *model.TaskBundle) *bundleDoc {
	taskIDs := make([]int64, len(b.TaskIDs))
	for i, id := range b.TaskIDs {
		taskIDs[i] = int64(id)
	}
	return &bundleDoc{
		ID:            int64(b.ID),
		TaskIDs:       taskIDs,
		PrimaryTaskID: int64(b.PrimaryTaskID),
		CreatedAt:     b.CreatedAt,
	}
}

func (d *bundleDoc) toModel() *model.TaskBundle {
	taskIDs := make([]types.TaskID, len(d.TaskIDs))
	for i, id := range d.TaskIDs {
		taskIDs[i] = types.TaskID(id)
	}
	return &model.TaskBundle{
		ID:            types.BundleID(d.ID),
		TaskIDs:       taskIDs,
		PrimaryTaskID: types.TaskID(d.PrimaryTaskID),
		CreatedAt:     d.CreatedAt,
	}
}

func (r *bundleRepository) Get(ctx context.Context, id types.BundleID) (*model.TaskBundle, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "bundle not found", goerr.V("bundleID", id))
		}
		return nil, goerr.Wrap(err, "failed to get bundle", goerr.V("bundleID", id))
	}

	var doc bundleDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode bundle", goerr.V("bundleID", id))
	}

	return doc.toModel(), nil
}

func (r *bundleRepository) Put(ctx context.Context, bundle *model.TaskBundle) error {
	doc := bundleToDoc(bundle)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if _, err := r.doc(bundle.ID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put bundle", goerr.V("bundleID", bundle.ID))
	}
	return nil
}
