package memory

import (
	"context"
	"sync"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-memory repository backend used for development and
// tests. Transactions hold the store-wide mutex for their whole
// duration, which gives the same exclusive-read guarantee a row lock
// provides in a real store.
type Memory struct {
	store *store

	task    *taskRepository
	bundle  *bundleRepository
	action  *actionRepository
	comment *commentRepository
	tag     *tagRepository
}

var _ interfaces.Repository = &Memory{}

// store holds all state shared by the sub-repositories
type store struct {
	mu sync.RWMutex

	tasks    map[types.TaskID]*model.Task
	bundles  map[types.BundleID]*model.TaskBundle
	actions  map[types.TaskID][]*model.Action
	comments map[types.TaskID][]*model.Comment
	tags     map[types.TaskID][]string
}

func New() *Memory {
	s := &store{
		tasks:    make(map[types.TaskID]*model.Task),
		bundles:  make(map[types.BundleID]*model.TaskBundle),
		actions:  make(map[types.TaskID][]*model.Action),
		comments: make(map[types.TaskID][]*model.Comment),
		tags:     make(map[types.TaskID][]string),
	}

	return &Memory{
		store:   s,
		task:    &taskRepository{store: s},
		bundle:  &bundleRepository{store: s},
		action:  &actionRepository{store: s},
		comment: &commentRepository{store: s},
		tag:     &tagRepository{store: s},
	}
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) Bundle() interfaces.BundleRepository {
	return m.bundle
}

func (m *Memory) Action() interfaces.ActionRepository {
	return m.action
}

func (m *Memory) Comment() interfaces.CommentRepository {
	return m.comment
}

func (m *Memory) Tag() interfaces.TagRepository {
	return m.tag
}

// RunTx serializes transactions with the store mutex: fn runs with
// exclusive access, its writes are staged, and they apply only when fn
// returns nil. fn must not call the plain sub-repositories, which
// would self-deadlock.
func (m *Memory) RunTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Tx) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	tx := &memoryTx{store: m.store}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	tx.commit()
	return nil
}

func (m *Memory) Close() error {
	return nil
}
