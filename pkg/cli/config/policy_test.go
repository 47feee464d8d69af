package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mapcrew-lab/taskcoord/pkg/cli/config"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadPolicy(t *testing.T) {
	path := writePolicyFile(t, `
[[project]]
id = 7
name = "sidewalks"
admins = ["ada"]
reviewers = ["rita", "rob"]

[[project]]
id = 8
name = "open"
reviewers = ["*"]

[[user]]
id = "alice"
review_by_default = true
`)

	cfg, err := config.Load(path)
	gt.NoError(t, err).Required()
	gt.Array(t, cfg.Projects).Length(2)
	gt.Array(t, cfg.Users).Length(1)
	gt.Value(t, cfg.Projects[0].Name).Equal("sidewalks")
	gt.Array(t, cfg.Projects[0].Reviewers).Length(2)
	gt.B(t, cfg.Users[0].ReviewByDefault).True()
}

func TestLoadPolicy_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "duplicate project id",
			content: `
[[project]]
id = 7
name = "a"

[[project]]
id = 7
name = "b"
`,
		},
		{
			name: "non-positive project id",
			content: `
[[project]]
id = 0
name = "a"
`,
		},
		{
			name: "user without id",
			content: `
[[user]]
review_by_default = true
`,
		},
		{
			name:    "malformed toml",
			content: "[[project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePolicyFile(t, tt.content)
			_, err := config.Load(path)
			gt.Error(t, err)
		})
	}
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	gt.Error(t, err)
}
