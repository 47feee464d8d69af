package authz

import (
	"context"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model/config"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// Wildcard in a reviewer/admin list grants the capability to everyone
const Wildcard = "*"

// Policy answers Authorizer and Preferences queries from a static
// policy config. Lists are indexed at construction; lookups never
// fail, so the error returns exist only to satisfy the interfaces.
type Policy struct {
	reviewers map[types.ProjectID]userSet
	admins    map[types.ProjectID]userSet
	prefs     map[types.UserID]bool
}

type userSet struct {
	users    map[string]bool
	wildcard bool
}

func (s userSet) contains(user types.UserID) bool {
	return s.wildcard || s.users[string(user)]
}

var (
	_ interfaces.Authorizer  = &Policy{}
	_ interfaces.Preferences = &Policy{}
)

func New(cfg *config.PolicyConfig) *Policy {
	p := &Policy{
		reviewers: make(map[types.ProjectID]userSet),
		admins:    make(map[types.ProjectID]userSet),
		prefs:     make(map[types.UserID]bool),
	}

	for _, project := range cfg.Projects {
		id := types.ProjectID(project.ID)
		p.reviewers[id] = newUserSet(project.Reviewers)
		p.admins[id] = newUserSet(project.Admins)
	}

	for _, user := range cfg.Users {
		p.prefs[types.UserID(user.ID)] = user.ReviewByDefault
	}

	return p
}

func newUserSet(ids []string) userSet {
	s := userSet{users: make(map[string]bool)}
	for _, id := range ids {
		if id == Wildcard {
			s.wildcard = true
			continue
		}
		s.users[id] = true
	}
	return s
}

func (p *Policy) CanReview(_ context.Context, actor types.UserID, task *model.Task) (bool, error) {
	return p.reviewers[task.ParentID].contains(actor), nil
}

func (p *Policy) IsProjectAdmin(_ context.Context, actor types.UserID, project types.ProjectID) (bool, error) {
	return p.admins[project].contains(actor), nil
}

func (p *Policy) ReviewRequestedByDefault(_ context.Context, user types.UserID) (bool, error) {
	return p.prefs[user], nil
}
