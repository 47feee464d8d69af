package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mapcrew-lab/taskcoord/pkg/domain/model/config"
	"github.com/mapcrew-lab/taskcoord/pkg/service/authz"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/logging"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Policy holds CLI flags for the authorization policy file
type Policy struct {
	path string
}

// Flags returns CLI flags for policy configuration
func (p *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy-file",
			Usage:       "TOML policy file with reviewer/admin lists and user preferences",
			Sources:     cli.EnvVars("TASKCOORD_POLICY_FILE"),
			Destination: &p.path,
		},
	}
}

// Configure loads and validates the policy file. Returns nil when no
// file is configured; reviewer-gated transitions are denied then.
func (p *Policy) Configure() (*authz.Policy, error) {
	if p.path == "" {
		logging.Default().Warn("No policy file configured, review decisions will be denied")
		return nil, nil
	}

	cfg, err := Load(p.path)
	if err != nil {
		return nil, err
	}

	logging.Default().Info("Policy loaded",
		"path", p.path,
		"projects", len(cfg.Projects),
		"users", len(cfg.Users),
	)
	return authz.New(cfg), nil
}

// Load reads and validates a policy config from a TOML file
func Load(path string) (*config.PolicyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", path))
	}

	var cfg config.PolicyConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse policy file", goerr.V("path", path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid policy file", goerr.V("path", path))
	}

	return &cfg, nil
}
