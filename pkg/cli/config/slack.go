package config

import (
	"github.com/mapcrew-lab/taskcoord/pkg/domain/interfaces"
	"github.com/mapcrew-lab/taskcoord/pkg/service/notify"
	"github.com/mapcrew-lab/taskcoord/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the Slack notification sink
type Slack struct {
	botToken string `masq:"secret"`
	channel  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for lock notifications",
			Sources:     cli.EnvVars("TASKCOORD_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID receiving lock notifications",
			Sources:     cli.EnvVars("TASKCOORD_SLACK_CHANNEL"),
			Destination: &s.channel,
		},
	}
}

// IsConfigured reports whether both token and channel are set
func (s *Slack) IsConfigured() bool {
	return s.botToken != "" && s.channel != ""
}

// Configure builds the notification sink. Returns nil when Slack is
// not configured; notifications are simply skipped then.
func (s *Slack) Configure() (interfaces.NotificationSink, error) {
	if !s.IsConfigured() {
		logging.Default().Info("Slack not configured, lock notifications disabled")
		return nil, nil
	}

	sink, err := notify.NewSlack(s.botToken, s.channel)
	if err != nil {
		return nil, err
	}

	logging.Default().Info("Slack notifications enabled", "channel", s.channel)
	return sink, nil
}
