package config

import (
	"github.com/m-mizutani/goerr/v2"
)

// PolicyConfig is the authorization/preference policy loaded from the
// TOML policy file. It is the backing data for the Authorizer and
// Preferences collaborators; authentication itself happens upstream.
type PolicyConfig struct {
	Projects []Project `toml:"project"`
	Users    []User    `toml:"user"`
}

// Project declares per-project capabilities. Reviewer/admin lists hold
// user ids; the single entry "*" grants the capability to everyone.
type Project struct {
	ID        int64    `toml:"id"`
	Name      string   `toml:"name"`
	Admins    []string `toml:"admins"`
	Reviewers []string `toml:"reviewers"`
}

// Validate checks if the Project is valid
func (p *Project) Validate() error {
	if p.ID <= 0 {
		return goerr.New("project id must be positive", goerr.V("id", p.ID))
	}
	return nil
}

// User declares per-user standing preferences.
type User struct {
	ID              string `toml:"id"`
	ReviewByDefault bool   `toml:"review_by_default"`
}

// Validate checks if the User is valid
func (u *User) Validate() error {
	if u.ID == "" {
		return goerr.New("user id is required")
	}
	return nil
}

// Validate checks if the PolicyConfig is valid
func (c *PolicyConfig) Validate() error {
	projectIDs := make(map[int64]bool)
	for _, p := range c.Projects {
		if err := p.Validate(); err != nil {
			return goerr.Wrap(err, "invalid project")
		}
		if projectIDs[p.ID] {
			return goerr.New("duplicate project ID", goerr.V("id", p.ID))
		}
		projectIDs[p.ID] = true
	}

	userIDs := make(map[string]bool)
	for _, u := range c.Users {
		if err := u.Validate(); err != nil {
			return goerr.Wrap(err, "invalid user")
		}
		if userIDs[u.ID] {
			return goerr.New("duplicate user ID", goerr.V("id", u.ID))
		}
		userIDs[u.ID] = true
	}

	return nil
}
