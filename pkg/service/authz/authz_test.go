package authz_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model/config"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
	"github.com/mapcrew-lab/taskcoord/pkg/service/authz"
)

func TestPolicy_CanReview(t *testing.T) {
	policy := authz.New(&config.PolicyConfig{
		Projects: []config.Project{
			{ID: 7, Name: "sidewalks", Reviewers: []string{"rita", "rob"}},
			{ID: 8, Name: "open", Reviewers: []string{"*"}},
		},
	})
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   types.UserID
		project types.ProjectID
		want    bool
	}{
		{name: "listed reviewer", actor: "rita", project: 7, want: true},
		{name: "unlisted user", actor: "alice", project: 7, want: false},
		{name: "wildcard project", actor: "alice", project: 8, want: true},
		{name: "unknown project", actor: "rita", project: 99, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := policy.CanReview(ctx, tt.actor, &model.Task{ID: 1, ParentID: tt.project})
			gt.NoError(t, err)
			gt.Equal(t, got, tt.want)
		})
	}
}

func TestPolicy_IsProjectAdmin(t *testing.T) {
	policy := authz.New(&config.PolicyConfig{
		Projects: []config.Project{
			{ID: 7, Name: "sidewalks", Admins: []string{"ada"}, Reviewers: []string{"rita"}},
		},
	})
	ctx := context.Background()

	got, err := policy.IsProjectAdmin(ctx, "ada", 7)
	gt.NoError(t, err)
	gt.B(t, got).True()

	// Reviewer capability does not imply admin
	got, err = policy.IsProjectAdmin(ctx, "rita", 7)
	gt.NoError(t, err)
	gt.B(t, got).False()
}

func TestPolicy_ReviewRequestedByDefault(t *testing.T) {
	policy := authz.New(&config.PolicyConfig{
		Users: []config.User{
			{ID: "alice", ReviewByDefault: true},
			{ID: "bob", ReviewByDefault: false},
		},
	})
	ctx := context.Background()

	got, err := policy.ReviewRequestedByDefault(ctx, "alice")
	gt.NoError(t, err)
	gt.B(t, got).True()

	got, err = policy.ReviewRequestedByDefault(ctx, "bob")
	gt.NoError(t, err)
	gt.B(t, got).False()

	// Unknown users default to no standing preference
	got, err = policy.ReviewRequestedByDefault(ctx, "mallory")
	gt.NoError(t, err)
	gt.B(t, got).False()
}
