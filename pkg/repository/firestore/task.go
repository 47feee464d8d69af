package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type taskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *taskRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_tasks"
	}
	return "tasks"
}

func (r *taskRepository) doc(id types.TaskID) *firestore.DocumentRef {
	return r.client.Collection(r.collection()).Doc(id.String())
}

// taskDoc is the Firestore document shape of a task
type taskDoc struct {
	ID                  int64          `firestore:"id"`
	ParentID            int64          `firestore:"parentId"`
	Status              int            `firestore:"status"`
	ReviewStatus        *int           `firestore:"reviewStatus"`
	CompletedBy         *string        `firestore:"completedBy"`
	ReviewedBy          *string        `firestore:"reviewedBy"`
	ReviewRequestedBy   *string        `firestore:"reviewRequestedBy"`
	CompletionResponses map[string]any `firestore:"completionResponses"`
	LockOwner           *string        `firestore:"lockOwner"`
	LockExpiry          *time.Time     `firestore:"lockExpiry"`
	BundleID            *int64         `firestore:"bundleId"`
	BundlePrimary       bool           `firestore:"bundlePrimary"`
	CreatedAt           time.Time      `firestore:"createdAt"`
	UpdatedAt           time.Time      `firestore:"updatedAt"`
}

func taskToDoc(t *model.Task) *taskDoc {
	doc := &taskDoc{
		ID:                  int64(t.ID),
		ParentID:            int64(t.ParentID),
		Status:              int(t.Status),
		CompletionResponses: t.CompletionResponses,
		BundlePrimary:       t.BundlePrimary,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
	if t.ReviewStatus != nil {
		v := int(*t.ReviewStatus)
		doc.ReviewStatus = &v
	}
	doc.CompletedBy = userIDToDoc(t.CompletedBy)
	doc.ReviewedBy = userIDToDoc(t.ReviewedBy)
	doc.ReviewRequestedBy = userIDToDoc(t.ReviewRequestedBy)
	doc.LockOwner = userIDToDoc(t.LockOwner)
	if t.LockExpiry != nil {
		exp := t.LockExpiry.UTC()
		doc.LockExpiry = &exp
	}
	if t.BundleID != nil {
		bid := int64(*t.BundleID)
		doc.BundleID = &bid
	}
	return doc
}

func (d *taskDoc) toModel() *model.Task {
	t := &model.Task{
		ID:                  types.TaskID(d.ID),
		ParentID:            types.ProjectID(d.ParentID),
		Status:              types.TaskStatus(d.Status),
		CompletionResponses: d.CompletionResponses,
		BundlePrimary:       d.BundlePrimary,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
	if d.ReviewStatus != nil {
		rs := types.ReviewStatus(*d.ReviewStatus)
		t.ReviewStatus = &rs
	}
	t.CompletedBy = userIDFromDoc(d.CompletedBy)
	t.ReviewedBy = userIDFromDoc(d.ReviewedBy)
	t.ReviewRequestedBy = userIDFromDoc(d.ReviewRequestedBy)
	t.LockOwner = userIDFromDoc(d.LockOwner)
	if d.LockExpiry != nil {
		exp := *d.LockExpiry
		t.LockExpiry = &exp
	}
	if d.BundleID != nil {
		bid := types.BundleID(*d.BundleID)
		t.BundleID = &bid
	}
	return t
}

func userIDToDoc(id *types.UserID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}

func userIDFromDoc(s *string) *types.UserID {
	if s == nil {
		return nil
	}
	id := types.UserID(*s)
	return &id
}

func (r *taskRepository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("taskID", id))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("taskID", id))
	}

	var doc taskDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode task", goerr.V("taskID", id))
	}

	return doc.toModel(), nil
}

func (r *taskRepository) Put(ctx context.Context, task *model.Task) error {
	doc := taskToDoc(task)
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if _, err := r.doc(task.ID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put task", goerr.V("taskID", task.ID))
	}
	return nil
}

func (r *taskRepository) ListExpiredLocks(ctx context.Context, now time.Time) ([]*model.Task, error) {
	iter := r.client.Collection(r.collection()).
		Where("lockExpiry", "<=", now.UTC()).
		OrderBy("lockExpiry", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Task
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate expired locks")
		}

		var doc taskDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode task")
		}
		result = append(result, doc.toModel())
	}

	return result, nil
}
