package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
)

// Firestore is the production repository backend. Transactions map to
// firestore.RunTransaction, which is serializable with contention
// retry: two concurrent claims on one task cannot both observe an
// unlocked row and commit.
type Firestore struct {
	client  *firestore.Client
	task    *taskRepository
	bundle  *bundleRepository
	action  *actionRepository
	comment *commentRepository
	tag     *tagRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.task.collectionPrefix = prefix
		f.bundle.collectionPrefix = prefix
		f.action.collectionPrefix = prefix
		f.comment.collectionPrefix = prefix
		f.tag.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:  client,
		task:    &taskRepository{client: client},
		bundle:  &bundleRepository{client: client},
		action:  &actionRepository{client: client},
		comment: &commentRepository{client: client},
		tag:     &tagRepository{client: client},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Task() interfaces.TaskRepository {
	return f.task
}

func (f *Firestore) Bundle() interfaces.BundleRepository {
	return f.bundle
}

func (f *Firestore) Action() interfaces.ActionRepository {
	return f.action
}

func (f *Firestore) Comment() interfaces.CommentRepository {
	return f.comment
}

func (f *Firestore) Tag() interfaces.TagRepository {
	return f.tag
}

// RunTx executes fn inside one Firestore transaction. Firestore
// requires every read before the first write; the Tx contract carries
// the same rule.
func (f *Firestore) RunTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Tx) error) error {
	return f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		wrapped := &firestoreTx{
			tx:      tx,
			task:    f.task,
			bundle:  f.bundle,
			action:  f.action,
			comment: f.comment,
			tag:     f.tag,
		}
		return fn(ctx, wrapped)
	})
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
